// Package content embeds the built-in weapon, skill, pet, condition and
// script catalog and merges optional on-disk overrides into it.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/cory-johannsen/arena/internal/game/condition"
	"github.com/cory-johannsen/arena/internal/game/inventory"
	"github.com/cory-johannsen/arena/internal/game/pet"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

//go:embed weapons/*.yaml skills/*.yaml pets/*.yaml conditions/*.yaml scripts/*.lua
var embedded embed.FS

// Overrides names optional directories whose definitions are merged over the
// embedded catalog. An entry with an existing ID replaces the built-in one.
type Overrides struct {
	WeaponsDir    string
	SkillsDir     string
	PetsDir       string
	ConditionsDir string
	ScriptsDir    string
}

// ScriptSource is one directory of Lua files to load, in order.
type ScriptSource struct {
	FS  fs.FS
	Dir string
}

// Catalog is the complete, read-only set of static definitions.
//
// Invariant: a Catalog is never mutated after Load returns and is safe for
// concurrent use.
type Catalog struct {
	weapons    *inventory.Registry
	skills     *skill.Registry
	pets       *pet.Registry
	conditions *condition.Registry
	scripts    []ScriptSource
}

// Default returns the embedded catalog with no overrides.
func Default() (*Catalog, error) {
	return Load(Overrides{})
}

// Load builds a Catalog from the embedded content plus o.
//
// Postcondition: Returns a Catalog in which every engine-required condition
// is defined, or the first load or validation error.
func Load(o Overrides) (*Catalog, error) {
	c := &Catalog{
		weapons:    inventory.NewRegistry(),
		skills:     skill.NewRegistry(),
		pets:       pet.NewRegistry(),
		conditions: condition.NewRegistry(),
		scripts:    []ScriptSource{{FS: embedded, Dir: "scripts"}},
	}
	if err := c.loadWeapons(embedded, "weapons"); err != nil {
		return nil, err
	}
	if err := c.skills.LoadFS(embedded, "skills"); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	if err := c.pets.LoadFS(embedded, "pets"); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	if err := c.loadConditions(embedded, "conditions"); err != nil {
		return nil, err
	}

	if o.WeaponsDir != "" {
		if err := c.loadWeapons(os.DirFS(o.WeaponsDir), "."); err != nil {
			return nil, err
		}
	}
	if o.SkillsDir != "" {
		if err := c.skills.LoadFS(os.DirFS(o.SkillsDir), "."); err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
	}
	if o.PetsDir != "" {
		if err := c.pets.LoadFS(os.DirFS(o.PetsDir), "."); err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
	}
	if o.ConditionsDir != "" {
		if err := c.loadConditions(os.DirFS(o.ConditionsDir), "."); err != nil {
			return nil, err
		}
	}
	if o.ScriptsDir != "" {
		c.scripts = append(c.scripts, ScriptSource{FS: os.DirFS(o.ScriptsDir), Dir: "."})
	}

	if err := c.conditions.Require(condition.Stunned, condition.Poisoned, condition.Trapped, condition.Hypnotized); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return c, nil
}

func (c *Catalog) loadWeapons(fsys fs.FS, dir string) error {
	defs, err := inventory.LoadWeaponsFS(fsys, dir)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}
	for _, w := range defs {
		c.weapons.Put(w)
	}
	return nil
}

func (c *Catalog) loadConditions(fsys fs.FS, dir string) error {
	reg, err := condition.LoadFS(fsys, dir)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}
	for _, d := range reg.All() {
		c.conditions.Register(d)
	}
	return nil
}

// Weapon returns the weapon id or an error wrapping inventory.ErrUnknownWeapon.
func (c *Catalog) Weapon(id string) (*inventory.WeaponDef, error) { return c.weapons.Lookup(id) }

// Skill returns the skill id or an error wrapping skill.ErrUnknownSkill.
func (c *Catalog) Skill(id string) (*skill.Def, error) { return c.skills.Lookup(id) }

// Pet returns the pet template id or an error wrapping pet.ErrUnknownPet.
func (c *Catalog) Pet(id string) (*pet.Template, error) { return c.pets.Lookup(id) }

// Condition returns the condition definition id, or (nil, false).
func (c *Catalog) Condition(id string) (*condition.ConditionDef, bool) { return c.conditions.Get(id) }

func (c *Catalog) Weapons() []*inventory.WeaponDef { return c.weapons.AllWeapons() }
func (c *Catalog) Skills() []*skill.Def           { return c.skills.All() }
func (c *Catalog) Pets() []*pet.Template          { return c.pets.All() }

// Scripts returns the Lua sources in load order: embedded first, then the
// override directory.
func (c *Catalog) Scripts() []ScriptSource {
	return append([]ScriptSource(nil), c.scripts...)
}

// ScriptHooks returns the hook names referenced by script-effect skills, in
// catalog order.
func (c *Catalog) ScriptHooks() []string {
	var hooks []string
	for _, s := range c.skills.All() {
		if s.Trigger != nil && s.Trigger.Effect == skill.EffectScript {
			hooks = append(hooks, s.Script)
		}
	}
	return hooks
}

// ScriptLoader executes Lua sources; *scripting.Manager satisfies it.
type ScriptLoader interface {
	LoadFS(fsys fs.FS, dir string) error
}

// LoadScripts executes every catalog script source into l, in order.
//
// Postcondition: returns the first load error, unwrapped.
func (c *Catalog) LoadScripts(l ScriptLoader) error {
	for _, s := range c.scripts {
		if err := l.LoadFS(s.FS, s.Dir); err != nil {
			return err
		}
	}
	return nil
}
