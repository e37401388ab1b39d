// Package script runs Lua scene scripts against an engine.Core.
//
// A script creates layers with regular_bg{...} and affine_bg{...} when it is
// loaded and may define update(frame), which is called once per frame before
// the compositor runs. Fatal compositor checks raised from a script surface as
// Lua errors.
package script

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/assets"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/engine"
	"github.com/FabianRolfMatthiasNoll/LayerCompositor/internal/logging"
)

// Script is a loaded scene. It implements engine.Scene.
type Script struct {
	name   string
	L      *lua.LState
	core   *engine.Core
	lib    *assets.Library
	log    logrus.FieldLogger
	update *lua.LFunction
	layers []*layerRef
}

var _ engine.Scene = (*Script)(nil)

func newScript(name string, core *engine.Core, lib *assets.Library, log logrus.FieldLogger) *Script {
	if log == nil {
		log = logging.Discard()
	}
	L := lua.NewState()
	L.Options.IncludeGoStackTrace = true
	s := &Script{
		name: name,
		L:    L,
		core: core,
		lib:  lib,
		log:  log.WithFields(logrus.Fields{"component": "script", "script": name}),
	}
	s.register()
	return s
}

// Load runs source and returns the scene it set up.
func Load(name, source string, core *engine.Core, lib *assets.Library, log logrus.FieldLogger) (*Script, error) {
	s := newScript(name, core, lib, log)
	if err := s.L.DoString(source); err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "load %s", name)
	}
	if err := s.lookupUpdate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// LoadFile runs the script at path.
func LoadFile(path string, core *engine.Core, lib *assets.Library, log logrus.FieldLogger) (*Script, error) {
	s := newScript(path, core, lib, log)
	if err := s.L.DoFile(path); err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if err := s.lookupUpdate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Script) lookupUpdate() error {
	switch fn := s.L.GetGlobal("update").(type) {
	case *lua.LFunction:
		s.update = fn
	case *lua.LNilType:
	default:
		return errors.Errorf("%s: update is a %s, not a function", s.name, fn.Type())
	}
	s.log.WithField("layers", len(s.layers)).Debug("script loaded")
	return nil
}

// Update calls the script's update function, if any.
func (s *Script) Update(core *engine.Core, frame int) error {
	if s.update == nil {
		return nil
	}
	top := s.L.GetTop()
	defer s.L.SetTop(top)
	err := s.L.CallByParam(lua.P{Fn: s.update, NRet: 0, Protect: true}, lua.LNumber(frame))
	return errors.Wrapf(err, "%s update", s.name)
}

// Layers returns the number of layers the script created and still holds.
func (s *Script) Layers() int {
	n := 0
	for _, l := range s.layers {
		if l.bg != nil {
			n++
		}
	}
	return n
}

// Close releases the layers the script still holds and the Lua state. It
// must run before the engine is stopped.
func (s *Script) Close() {
	for _, l := range s.layers {
		l.release()
	}
	s.layers = nil
	s.L.Close()
}
