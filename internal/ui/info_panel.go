// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"tower-siege/internal/component"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
)

const (
	panelHeight    = 110
	panelMargin    = 5
	animationSpeed = 10.0
	lineHeight     = 18
)

// PanelAction is what a click on the panel asks for.
type PanelAction int

const (
	PanelNone PanelAction = iota
	PanelUpgrade
	PanelSell
)

// InfoPanel displays the selected defender with upgrade and sell buttons.
type InfoPanel struct {
	IsVisible     bool
	TargetID      int
	fontFace      font.Face
	currentY      float64
	targetY       float64
	UpgradeButton *Button
	SellButton    *Button
}

// NewInfoPanel creates a new information panel.
func NewInfoPanel(face font.Face) *InfoPanel {
	return &InfoPanel{
		fontFace:      face,
		currentY:      config.ScreenHeight,
		targetY:       config.ScreenHeight,
		UpgradeButton: NewButton(image.Rectangle{}, "Upgrade"),
		SellButton:    NewButton(image.Rectangle{}, "Sell"),
	}
}

func (p *InfoPanel) SetTarget(id int) {
	p.TargetID = id
	p.IsVisible = true
	p.targetY = config.ScreenHeight - panelHeight
}

func (p *InfoPanel) Hide() {
	p.targetY = config.ScreenHeight
}

// Update animates the panel.
func (p *InfoPanel) Update() {
	if p.currentY == p.targetY {
		return
	}
	diff := p.targetY - p.currentY
	switch {
	case math.Abs(diff) < animationSpeed:
		p.currentY = p.targetY
	case diff > 0:
		p.currentY += animationSpeed
	default:
		p.currentY -= animationSpeed
	}
	if p.currentY >= config.ScreenHeight {
		p.IsVisible = false
		p.TargetID = 0
	}
}

// Contains reports whether the point lies on the visible panel.
func (p *InfoPanel) Contains(x, y int) bool {
	return p.IsVisible && float64(y) >= p.currentY
}

// HandleClick maps a click to a panel action.
func (p *InfoPanel) HandleClick(x, y int) PanelAction {
	if !p.IsVisible || p.TargetID == 0 {
		return PanelNone
	}
	if p.UpgradeButton.IsClicked(x, y) {
		return PanelUpgrade
	}
	if p.SellButton.IsClicked(x, y) {
		return PanelSell
	}
	return PanelNone
}

// Draw renders the panel. upgradeCost is negative at max level.
func (p *InfoPanel) Draw(screen *ebiten.Image, d *component.Defender, def defs.DefenderDefinition, upgradeCost, sellValue, coins int) {
	if !p.IsVisible && p.currentY >= config.ScreenHeight {
		return
	}

	panelRect := image.Rect(
		panelMargin,
		int(p.currentY)+panelMargin,
		config.ScreenWidth-panelMargin,
		int(p.currentY)+panelHeight-panelMargin,
	)
	bgColor := color.RGBA{R: 25, G: 35, B: 45, A: 230}
	vector.DrawFilledRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), bgColor, true)
	borderColor := color.RGBA{R: 70, G: 130, B: 180, A: 255}
	vector.StrokeRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), 2, borderColor, true)

	if d == nil {
		return
	}

	x, y := panelRect.Min.X+15, panelRect.Min.Y+20
	text.Draw(screen, fmt.Sprintf("%s  level %d", def.Name, d.Level), p.fontFace, x, y, config.TextLightColor)
	y += lineHeight
	if def.Miner {
		text.Draw(screen, fmt.Sprintf("Mines every %.1fs", d.AttackSpeed/1000), p.fontFace, x, y, config.TextLightColor)
	} else {
		text.Draw(screen, fmt.Sprintf("Damage: %.1f", d.Damage), p.fontFace, x, y, config.TextLightColor)
		y += lineHeight
		text.Draw(screen, fmt.Sprintf("Range: %.1f", d.Range), p.fontFace, x, y, config.TextLightColor)
		y += lineHeight
		text.Draw(screen, fmt.Sprintf("Attack: %.2f/s", 1000/d.AttackSpeed), p.fontFace, x, y, config.TextLightColor)
	}

	btnW, btnH := 150, 36
	p.SellButton.Rect = image.Rect(panelRect.Max.X-btnW-20, panelRect.Max.Y-btnH-15, panelRect.Max.X-20, panelRect.Max.Y-15)
	p.SellButton.Text = fmt.Sprintf("Sell +%d", sellValue)
	p.UpgradeButton.Rect = p.SellButton.Rect.Sub(image.Pt(btnW+20, 0))
	if upgradeCost < 0 {
		p.UpgradeButton.Text = "Max level"
		p.UpgradeButton.Disabled = true
	} else {
		p.UpgradeButton.Text = fmt.Sprintf("Upgrade %d", upgradeCost)
		p.UpgradeButton.Disabled = coins < upgradeCost
	}
	p.UpgradeButton.Draw(screen, p.fontFace)
	p.SellButton.Draw(screen, p.fontFace)
}
