package state

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// uiFont — моноширинный шрифт 7x13, ширина символа совпадает с config.TextCharWidth.
var uiFont font.Face = basicfont.Face7x13
