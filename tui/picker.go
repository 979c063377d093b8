package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"andary/asset"
)

// screen identifies a sidebar destination
type screen int

const (
	screenAsk screen = iota
	screenExplain
	screenLecture
	screenSettings
	screenCount
)

// assetLoadedMsg is sent when a picked file has been read from disk
type assetLoadedMsg struct {
	target screen
	asset  asset.Asset
	err    error
}

// newAssetPicker creates a file picker limited to supported study materials
func newAssetPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = asset.SupportedExtensions
	fp.ShowHidden = false
	fp.ShowSize = true
	fp.ShowPermissions = false
	fp.AutoHeight = false
	fp.Height = 10
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	return fp
}

// loadAsset reads path in the background and reports to target
func loadAsset(target screen, path string) tea.Cmd {
	return func() tea.Msg {
		a, err := asset.Load(path)
		return assetLoadedMsg{target: target, asset: a, err: err}
	}
}
