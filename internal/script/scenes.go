package script

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assets"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
)

//go:embed scenes/*.lua
var scenes embed.FS

// Builtins returns the names of the scenes shipped with the module.
func Builtins() []string {
	entries, _ := scenes.ReadDir("scenes")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".lua"))
	}
	sort.Strings(out)
	return out
}

// LoadBuiltin loads a shipped scene by name.
func LoadBuiltin(name string, core *engine.Core, lib *assets.Library, log logrus.FieldLogger) (*Script, error) {
	src, err := scenes.ReadFile(path.Join("scenes", name+".lua"))
	if err != nil {
		return nil, errors.Errorf("unknown scene %q (have %s)", name, strings.Join(Builtins(), ", "))
	}
	return Load(name, string(src), core, lib, log)
}

// Open loads a .lua file when ref names one and a builtin scene otherwise.
func Open(ref string, core *engine.Core, lib *assets.Library, log logrus.FieldLogger) (*Script, error) {
	if strings.HasSuffix(ref, ".lua") {
		return LoadFile(ref, core, lib, log)
	}
	return LoadBuiltin(ref, core, lib, log)
}
