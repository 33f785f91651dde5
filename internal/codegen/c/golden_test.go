package c

import (
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/runec/rnc/internal/specialize"
	"github.com/runec/rnc/internal/types"
)

// addI32Fixture is an inline txtar archive pairing the runtime-feature
// request that a single "i32 + i32" expression makes against the Registry
// (registry.txt) with the C fragment the emitted translation unit must
// contain (want.c). The test parses the archive and reads want.c; it
// makes the registry request itself rather than reading registry.txt.
const addI32Fixture = `-- registry.txt --
signed add width=32
-- want.c --
static inline int32_t rnc_add_i32(int32_t a, int32_t b) {
`

func TestTranslationUnitContainsWidthWrapper(t *testing.T) {
	arc := txtar.Parse([]byte(addI32Fixture))
	var want string
	for _, f := range arc.Files {
		if f.Name == "want.c" {
			want = string(f.Data)
		}
	}
	if want == "" {
		t.Fatal("fixture missing want.c section")
	}

	reg := NewRegistry()
	reg.RequestInclude("<stdint.h>")
	reg.RequestSigned(OpAdd, 32)

	tu := &TranslationUnit{
		Runtime: reg,
		Types:   specialize.NewRegistry(types.NewContext()),
		Decls:   NewDeclTable(),
	}
	out := tu.Emit()

	if !strings.Contains(out, strings.TrimSpace(want)) {
		t.Errorf("generated translation unit missing expected width wrapper:\nwant substring:\n%s\ngot:\n%s", want, out)
	}
}

func TestTranslationUnitOmitsUnrequestedFamilies(t *testing.T) {
	reg := NewRegistry()
	tu := &TranslationUnit{
		Runtime: reg,
		Types:   specialize.NewRegistry(types.NewContext()),
		Decls:   NewDeclTable(),
	}
	out := tu.Emit()
	if strings.Contains(out, "rnc_raise") {
		t.Error("no overflow-checked family was requested, so the raise() helper should not be emitted")
	}
}
