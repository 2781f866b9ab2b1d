package pager

import (
	"fmt"
	"io"
	"strings"

	"github.com/noborus/ov/oviewer"
)

// Show pages content with ov until the user quits it
func Show(content string) error {
	return ShowReader(strings.NewReader(content))
}

// ShowReader pages everything read from r
func ShowReader(r io.Reader) error {
	root, err := oviewer.NewRoot(r)
	if err != nil {
		return fmt.Errorf("failed to create pager: %w", err)
	}

	// Don't write on exit, the screen belongs to the caller afterwards
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
