package luahost

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/diceroll/internal/random"
	"github.com/louisbranch/diceroll/internal/roller"
)

func newTestHost(t *testing.T, opts Options) *Host {
	t.Helper()
	if opts.NewSession == nil {
		opts.NewSession = func() *roller.Session {
			return roller.NewSessionWithSource(random.NewSeedSourceFromKey([random.KeySize]byte{3}))
		}
	}
	h := New(context.Background(), opts)
	t.Cleanup(h.Close)
	return h
}

func TestRollExpressionFromLua(t *testing.T) {
	h := newTestHost(t, Options{})
	err := h.DoString(`
		local s = dice.session()
		local result = s:roll_expression("2d6 + 1d4 + 3d8")
		assert(#result == 3, "expected three terms")
		local counts = {2, 1, 3}
		for i, term in ipairs(result) do
			assert(#term[2] == counts[i], "term " .. i .. " has wrong roll count")
			local sum = 0
			for _, roll in ipairs(term[2]) do sum = sum + roll end
			assert(sum == term[1], "term " .. i .. " total mismatch")
		end
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestRollTermWithParsedValue(t *testing.T) {
	h := newTestHost(t, Options{})
	err := h.DoString(`
		local term = dice.parse_term("4d6")
		assert(tostring(term) == "4d6", "unexpected term source " .. tostring(term))
		local result = dice.roll_term(dice.session(), term)
		assert(#result == 2, "term result should be {total, rolls}")
		assert(#result[2] == 4, "expected four rolls")
		for _, roll in ipairs(result[2]) do
			assert(roll >= 1 and roll <= 6, "roll out of range")
		end
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestConstantAndSubtraction(t *testing.T) {
	h := newTestHost(t, Options{})
	err := h.DoString(`
		local result = dice.session():roll_expression(dice.parse_expression("1d4 - 2"))
		assert(result[2][1] == -2, "constant should be negated")
		assert(#result[2][2] == 0, "constant has no rolls")
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestAsyncRollAwaitAndPoll(t *testing.T) {
	h := newTestHost(t, Options{})
	err := h.DoString(`
		local s = dice.session()
		local n = dice.notifier()
		local first = s:roll_term_async("3d8", n)
		local second = s:roll_expression_async("1d20 + 5", n)
		assert(first == 1 and second == 2, "tickets should be issued in order")

		local term = n:await(first)
		assert(#term[2] == 3, "expected three rolls")

		local expr = n:await(second)
		assert(#expr == 2 and expr[2][1] == 5, "unexpected expression result")
		assert(n:pending() == 0, "every ticket should be consumed")

		local third = s:roll_term_async("1d6", n)
		local value, ready = n:poll(third)
		while not ready do
			value, ready = n:poll(third)
		end
		assert(#value[2] == 1, "expected one roll")
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
}

func TestLuaErrors(t *testing.T) {
	testCases := []struct {
		name   string
		script string
		want   string
	}{
		{name: "parse failure", script: `dice.parse_expression("2d")`, want: "die sides"},
		{name: "term rejects expression", script: `dice.parse_term("1d6+1")`, want: "after term"},
		{name: "session required", script: `dice.roll_term(nil, "1d6")`, want: "dice.session"},
		{name: "consumed ticket", script: `
			local n = dice.notifier()
			local t = dice.session():roll_term_async("1d6", n)
			n:await(t)
			n:await(t)
		`, want: "unknown"},
		{name: "step budget", script: `dice.session():roll_term("10d6")`, want: "halted"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHost(t, Options{MaxSteps: 5})
			err := h.DoString(tc.script)
			if err == nil {
				t.Fatal("expected script error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestDoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.lua")
	script := `assert(#dice.session():roll_term("2d10")[2] == 2)`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	h := newTestHost(t, Options{})
	if err := h.DoFile(path); err != nil {
		t.Fatalf("run file: %v", err)
	}
}
