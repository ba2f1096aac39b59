package schemas

import (
	v "github.com/Gobd/apicontract"
)

var reg = v.NewRegistry()

func init() { reg.Seal() }

// Registry returns the sealed catalog.
func Registry() *v.Registry { return reg }

// Get returns the schema registered under name. Unknown names panic.
func Get(name string) *v.Node { return reg.MustGet(name) }
