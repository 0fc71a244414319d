// Package roms holds programs embedded into the executables.
package roms

import _ "embed"

// Demo draws the hex digits 0 to 7 across the middle of the screen and
// restarts after a key press.
//
//	200: CLS
//	202: LD V0, $00
//	204: LD V1, $08
//	206: LD V2, $0C
//	208: LD F, V0
//	20A: DRW V1, V2, $5
//	20C: ADD V1, $06
//	20E: ADD V0, $01
//	210: SE V0, $08
//	212: JP $208
//	214: LD V0, K
//	216: JP $200
//
//go:embed demo.ch8
var Demo []byte
