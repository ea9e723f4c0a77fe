// internal/config/config.go
package config

import (
	"image/color"
	"time"
)

const (
	ScreenWidth  = 1120
	ScreenHeight = 760
	CellSize     = 64.0
	FieldOffsetX = 48.0
	FieldOffsetY = 64.0
	HUDHeight    = 48

	TicksPerSecond = 20
	TickInterval   = time.Second / TicksPerSecond // 50ms
	MaxDeltaTime   = 0.25                         // seconds, больше не симулируем за один тик

	DefaultMapID = "meadow"
	DefaultSeed  = 0 // 0 — сид из текущего времени

	EnemyRadius       = 14.0
	BossRadius        = 22.0
	DefenderRadius    = 22.0
	DefenderStroke    = 2.0
	FloatingTextRiseY = 24.0 // pixels over the text lifetime

	TextCharWidth = 7
	TextOffsetY   = 4

	ClickCooldown = 200 // ms между переключениями кнопок
)

var (
	BackgroundColor = color.RGBA{20, 20, 30, 255}
	GrassColor      = color.RGBA{46, 74, 52, 255}
	PathColor       = color.RGBA{150, 120, 80, 255}
	FlyingPathColor = color.RGBA{120, 160, 220, 90}
	GridLineColor   = color.RGBA{0, 0, 0, 60}
	TextLightColor  = color.RGBA{240, 240, 240, 255}
	TextDarkColor   = color.RGBA{20, 20, 30, 255}
	IdleStateColor  = color.RGBA{70, 130, 180, 220}
	WaveStateColor  = color.RGBA{220, 60, 60, 220}
	EnemyColor      = color.RGBA{30, 30, 30, 255}
	BossColor       = color.RGBA{120, 0, 60, 255}
	HitColor        = color.RGBA{255, 255, 255, 255}
	SlowColor       = color.RGBA{102, 204, 255, 255}
	HealGlowColor   = color.RGBA{77, 255, 136, 160}
	BurnColor       = color.RGBA{255, 120, 0, 200}
	FreezeOverlay   = color.RGBA{180, 220, 255, 60}
	FlashOverlay    = color.RGBA{255, 0, 0, 70}
	HPBarColor      = color.RGBA{50, 205, 50, 255}
	HPBarBackground = color.RGBA{90, 20, 20, 255}
	StunColor       = color.RGBA{184, 77, 255, 255}
	DefenderColors  = map[string]color.RGBA{
		"warrior":   {200, 60, 60, 255},
		"archer":    {60, 180, 60, 255},
		"miner":     {255, 215, 0, 255}, // золотой для добытчика
		"stone":     {128, 128, 128, 255},
		"ice":       {80, 160, 255, 255},
		"lightning": {180, 50, 230, 255},
	}
	SpeedButtonColors = []color.Color{
		color.RGBA{70, 130, 180, 220},  // x1
		color.RGBA{220, 60, 60, 220},   // x2
		color.RGBA{194, 178, 128, 255}, // x3, песочно-жёлтый
	}
)
