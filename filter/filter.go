// Package filter evaluates expr-lang expressions against dsc.gg links,
// for client-side narrowing of search and top-list results.
//
// Expressions see the link's fields directly (Slug, Redirect, Type,
// Unlisted, ...) plus a handful of helpers:
//
//	Type == "server" && !Unlisted
//	contains(Redirect, "discord.gg") && daysSince(CreatedAt) < 30
//	hasEmbed() && contains(Title, "community")
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/samber/lo"

	"github.com/seven7ty/dscgg/dscgg"
)

// Filter is a compiled link filter. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into a Filter.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, errors.New("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // link fields are injected at runtime
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", expression, err)
	}

	return &Filter{expression: expression, program: program}, nil
}

// Match reports whether the link satisfies the filter. Expressions that
// fail at runtime count as non-matching.
func (f *Filter) Match(link dscgg.Link) bool {
	result, err := expr.Run(f.program, environment(link))
	if err != nil {
		return false
	}
	// AsBool() during compilation guarantees the assertion.
	return result.(bool)
}

// Apply returns the links satisfying the filter.
func (f *Filter) Apply(links []dscgg.Link) []dscgg.Link {
	return lo.Filter(links, func(link dscgg.Link, _ int) bool {
		return f.Match(link)
	})
}

// Expression returns the original expression.
func (f *Filter) Expression() string {
	return f.expression
}

func helperFunctions() map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)
	return env
}

func addHelperFunctions(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// environment builds the runtime environment for one link.
func environment(link dscgg.Link) map[string]any {
	env := make(map[string]any, 32)
	addHelperFunctions(env)

	env["Link"] = link
	env["Slug"] = link.ID
	env["Owner"] = link.Owner.Int64()
	env["Domain"] = link.Domain
	env["Redirect"] = link.Redirect
	env["Type"] = string(link.Type)
	env["Unlisted"] = link.Unlisted
	env["Disabled"] = link.Disabled
	env["CreatedAt"] = link.CreatedAt.Time
	if link.BumpedAt != nil {
		env["BumpedAt"] = link.BumpedAt.Time
	} else {
		env["BumpedAt"] = time.Time{}
	}

	var title, description string
	if link.Meta != nil {
		title = link.Meta.Title
		description = link.Meta.Description
	}
	env["Title"] = title
	env["Description"] = description

	env["hasEmbed"] = func() bool { return link.Meta != nil }
	env["isServer"] = func() bool { return link.Type == dscgg.LinkTypeServer }
	env["isBot"] = func() bool { return link.Type == dscgg.LinkTypeBot }
	env["isTemplate"] = func() bool { return link.Type == dscgg.LinkTypeTemplate }

	return env
}
