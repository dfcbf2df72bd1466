package types

// ---- Bus payloads ----

// KeyValue is published on keypad/key for every scanner change.
// Symbol is 0 on release.
type KeyValue struct {
	Symbol  byte  `json:"symbol"`
	Pressed bool  `json:"pressed"`
	TSms    int64 `json:"ts_ms"`
}

// DisplayValue is the retained calculator state on calc/display.
type DisplayValue struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"` // errcode string, empty when the key applied cleanly
	TSms  int64  `json:"ts_ms"`
}

// ButtonInfo describes a counted button (retained on counter/<name>/info).
type ButtonInfo struct {
	Pin int `json:"pin"`
}

// CountValue is the retained press count on counter/<name>/value.
type CountValue struct {
	Presses uint32 `json:"presses"`
	Drops   uint32 `json:"drops"` // ISR events lost to a full queue
	TSms    int64  `json:"ts_ms"`
}
