package main

import (
	"os"
	"strings"

	"github.com/rhovm/rhovm/pkg/asm"
	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
)

// loadModule reads path and returns the bytecode.Module it describes. A
// ".rvasm" file is assembled from source; anything else is treated as a
// previously-serialized module (pkg/bytecode.Serialize's wire format).
func loadModule(path string) (*bytecode.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewTool("reading %s: %v", path, err)
	}

	if strings.HasSuffix(path, ".rvasm") {
		return asm.Assemble(string(data), path)
	}
	return bytecode.Deserialize(path, data)
}

// constantPoolAsValues lifts a module's string constant pool into the
// process-local Value slice process.New expects (spec §3.4's PUSH_STR
// resolves through this pool, one Str Value per entry).
func constantPoolAsValues(module *bytecode.Module) []bytecode.Value {
	pool := make([]bytecode.Value, len(module.Constants))
	for i, c := range module.Constants {
		pool[i] = bytecode.NewStr(c)
	}
	return pool
}
