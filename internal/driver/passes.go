package driver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"shady/internal/diag"
	"shady/internal/ir"
	"shady/internal/trace"
)

// Pass transforms or inspects a unit. Passes report problems through the
// unit's bag; a returned error means the pass itself could not finish.
type Pass interface {
	Name() string
	Run(ctx context.Context, u *Unit) error
}

var passRegistry = map[string]func() Pass{
	"verify":  func() Pass { return verifyPass{} },
	"rewrite": func() Pass { return rewritePass{} },
}

// PassNames lists the registered passes in sorted order.
func PassNames() []string {
	names := make([]string, 0, len(passRegistry))
	for name := range passRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ResolvePasses maps names to passes, in order.
func ResolvePasses(names []string) ([]Pass, error) {
	out := make([]Pass, 0, len(names))
	for _, name := range names {
		mk, ok := passRegistry[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown pass %q (known: %s)", name, strings.Join(PassNames(), ", "))
		}
		out = append(out, mk())
	}
	return out, nil
}

type verifyPass struct{}

func (verifyPass) Name() string { return "verify" }

func (verifyPass) Run(_ context.Context, u *Unit) error {
	for _, e := range ir.Verify(u.Arena) {
		diag.ReportError(u.reporter(), verifyCode(e.Check), u.spanOf(e.ID), e.Error()).Emit()
	}
	return nil
}

func verifyCode(c ir.VerifyCheck) diag.Code {
	switch c {
	case ir.CheckOrder:
		return diag.VerForwardRef
	case ir.CheckBody:
		return diag.VerBody
	case ir.CheckCanonical:
		return diag.VerCanonical
	case ir.CheckTyping:
		return diag.VerTyping
	default:
		return diag.VerInfo
	}
}

// rewritePass copies the unit into a fresh arena through ir.Rewriter, with
// the unit's rewrite hook applied, and releases the old arena. Bound names
// and their spans follow the copy.
type rewritePass struct{}

func (rewritePass) Name() string { return "rewrite" }

func (rewritePass) Run(ctx context.Context, u *Unit) error {
	src := u.Arena
	dst := ir.NewArena(src.Config(), ir.WithTracer(trace.FromContext(ctx)))
	r := ir.NewRewriter(src, dst, u.rewriteHook)
	for id := range src.All() {
		if _, err := r.Rewrite(id); err != nil {
			dst.Destroy()
			return fmt.Errorf("rewrite %s: %w", id, err)
		}
	}

	names := make(map[string]ir.NodeID, len(u.Module.Names))
	for name, id := range u.Module.Names {
		if out, ok := r.Lookup(id); ok {
			names[name] = out
		}
	}
	u.Module.Names = names
	u.Module.Arena = dst
	u.Arena = dst
	u.spans = nil
	src.Destroy()
	return nil
}
