// internal/component/visual.go
package component

// Цвета, которые ядро передаёт слою отображения.
const (
	ColorGold   = "#ffd700"
	ColorRed    = "#ff4d4d"
	ColorBlue   = "#66ccff"
	ColorPurple = "#b84dff"
	ColorGreen  = "#4dff88"
	ColorWhite  = "#f0f0f0"
)

// FloatingText — всплывающая надпись над полем ("+15", "SLOWED").
type FloatingText struct {
	ID        int      `json:"id"`
	Position  Position `json:"position"`
	Text      string   `json:"text"`
	Color     string   `json:"color"`
	CreatedAt float64  `json:"createdAt"`
	ExpiresAt float64  `json:"expiresAt"`
}

// Opacity returns the decaying alpha in [0, 1] at the given time.
func (f FloatingText) Opacity(now float64) float64 {
	life := f.ExpiresAt - f.CreatedAt
	if life <= 0 || now >= f.ExpiresAt {
		return 0
	}
	if now <= f.CreatedAt {
		return 1
	}
	return (f.ExpiresAt - now) / life
}

// Notification is a transient banner shown to the player.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	ExpiresAt   float64 `json:"expiresAt"`
}
