package assets

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbedded(t *testing.T) {
	if !strings.Contains(DemoScript, "function tick(") {
		t.Error("demo script defines no tick function")
	}
	if _, err := fs.Stat(WebUI, "index.html"); err != nil {
		t.Errorf("index.html: %v", err)
	}
}
