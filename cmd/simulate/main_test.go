package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/combat"
)

func writeDescriptors(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte(`
name: Ajax
level: 3
strength: 7
agility: 5
speed: 6
endurance: 5
weapon: katana
skills: [herculeanStrength, vampirism]
`), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`
name: Brutus
level: 3
strength: 6
agility: 4
speed: 5
endurance: 7
weapon: mace
skills: [armor, thorns]
pet: dog
`), 0o644))
	return a, b
}

var hashLine = regexp.MustCompile(`hash: ([0-9a-f]{64})`)

func TestRun_PrintsOutcomeAndVerifiesExpectation(t *testing.T) {
	a, b := writeDescriptors(t)
	var out bytes.Buffer
	require.NoError(t, run(options{a: a, b: b, seed: "cli", verbose: true}, &out))
	assert.Contains(t, out.String(), "Ajax enters the arena")
	m := hashLine.FindStringSubmatch(out.String())
	require.Len(t, m, 2)

	out.Reset()
	require.NoError(t, run(options{a: a, b: b, seed: "cli", expect: m[1]}, &out))
	assert.NotContains(t, out.String(), "enters the arena")

	err := run(options{a: a, b: b, seed: "cli", expect: "deadbeef"}, &out)
	assert.ErrorIs(t, err, combat.ErrHashMismatch)
}

func TestRun_CompareListsEveryFormula(t *testing.T) {
	a, b := writeDescriptors(t)
	var out bytes.Buffer
	require.NoError(t, run(options{a: a, b: b, compare: true}, &out))
	assert.Regexp(t, `(?m)^exact\s+winner=`, out.String())
	assert.Regexp(t, `(?m)^parity\s+winner=`, out.String())
}

func TestRun_RequiresBothFighters(t *testing.T) {
	assert.Error(t, run(options{a: "only.yaml"}, &bytes.Buffer{}))
}

func TestRun_MissingDescriptorFile(t *testing.T) {
	a, _ := writeDescriptors(t)
	assert.Error(t, run(options{a: a, b: filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}))
}
