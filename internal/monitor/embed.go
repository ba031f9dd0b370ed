package monitor

import "embed"

// FS contains the embedded dashboard assets, served at "/".
//
//go:embed index.html dashboard.js
var FS embed.FS
