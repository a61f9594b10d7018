package combat

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrHashMismatch is returned when a re-simulated encounter does not
// reproduce the expected content hash.
var ErrHashMismatch = errors.New("combat: hash mismatch")

// FinalState is one fighter's state when the encounter ended.
type FinalState struct {
	Name       string   `json:"name"`
	Health     int      `json:"health"`
	MaxHealth  int      `json:"max_health"`
	Stamina    int      `json:"stamina"`
	MaxStamina int      `json:"max_stamina"`
	Weapon     string   `json:"weapon,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	HasPet     bool     `json:"has_pet,omitempty"`
	PetHealth  int      `json:"pet_health,omitempty"`
}

func finalState(f *Fighter) FinalState {
	fs := FinalState{
		Name:       f.Name,
		Health:     f.Health,
		MaxHealth:  f.Stats.MaxHealth,
		Stamina:    f.Stamina,
		MaxStamina: f.Stats.MaxStamina,
		Weapon:     f.weaponID(),
		Conditions: f.conditionIDs(),
	}
	if f.Pet != nil {
		fs.HasPet = true
		fs.PetHealth = f.Pet.Health
	}
	return fs
}

// TraceLine is a human-readable rendering of one step. It is debug output
// and never hashed.
type TraceLine struct {
	Index        int    `json:"index"`
	Actor        string `json:"actor"`
	Target       string `json:"target,omitempty"`
	Message      string `json:"message"`
	ActorHealth  int    `json:"actor_health"`
	TargetHealth int    `json:"target_health"`
	ActorStamina int    `json:"actor_stamina"`
}

// Result is the outcome of one encounter.
type Result struct {
	Winner   int           `json:"winner"`
	Loser    int           `json:"loser"`
	Fighters [2]FinalState `json:"fighters"`
	Steps    []Step        `json:"steps"`
	Turns    int           `json:"turns"`
	Formula  string        `json:"formula"`
	Seed     string        `json:"seed"`
	Hash     string        `json:"hash"`
	Trace    []TraceLine   `json:"trace,omitempty"`
}

// Canonical returns the deterministic binary encoding of r that Hash
// digests. Every field is written in a fixed order, zero values included;
// Trace and Hash are excluded.
func (r *Result) Canonical() []byte {
	var b []byte
	b = appendString(b, 1, r.Formula)
	b = appendString(b, 2, r.Seed)
	b = appendInt(b, 3, r.Winner)
	b = appendInt(b, 4, r.Loser)
	b = appendInt(b, 5, r.Turns)
	for _, fs := range r.Fighters {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeFinal(fs))
	}
	for _, s := range r.Steps {
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeStep(s))
	}
	return b
}

// ComputeHash returns the hex BLAKE2b-256 digest of r.Canonical().
func (r *Result) ComputeHash() string {
	sum := blake2b.Sum256(r.Canonical())
	return hex.EncodeToString(sum[:])
}

// Verify recomputes r's hash and compares it with both r.Hash and want.
//
// Postcondition: returns an error wrapping ErrHashMismatch iff either
// comparison fails.
func Verify(r *Result, want string) error {
	got := r.ComputeHash()
	if got != r.Hash {
		return fmt.Errorf("%w: result carries %s, content hashes to %s", ErrHashMismatch, r.Hash, got)
	}
	if got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, want, got)
	}
	return nil
}

func encodeFinal(fs FinalState) []byte {
	var b []byte
	b = appendString(b, 1, fs.Name)
	b = appendInt(b, 2, fs.Health)
	b = appendInt(b, 3, fs.MaxHealth)
	b = appendInt(b, 4, fs.Stamina)
	b = appendInt(b, 5, fs.MaxStamina)
	b = appendString(b, 6, fs.Weapon)
	for _, c := range fs.Conditions {
		b = appendString(b, 7, c)
	}
	b = appendBool(b, 8, fs.HasPet)
	b = appendInt(b, 9, fs.PetHealth)
	return b
}

func encodeStep(s Step) []byte {
	var b []byte
	b = appendInt(b, 1, int(s.Kind))
	b = appendInt(b, 2, s.Actor)
	b = appendInt(b, 3, s.Target)
	b = appendInt(b, 4, s.Damage)
	b = appendBool(b, 5, s.Critical)
	b = appendString(b, 6, s.Skill)
	b = appendString(b, 7, s.Weapon)
	b = appendString(b, 8, s.Status)
	b = appendBool(b, 9, s.Pet)
	b = appendInt(b, 10, s.ActorHealth)
	b = appendInt(b, 11, s.TargetHealth)
	b = appendInt(b, 12, s.ActorStamina)
	return b
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

// describe renders s for the debug trace.
func describe(s Step, names [2]string) string {
	actor := names[s.Actor]
	if s.Pet {
		actor += "'s pet"
	}
	target := ""
	if s.Target != NoTarget {
		target = names[s.Target]
	}
	crit := ""
	if s.Critical {
		crit = " (critical)"
	}
	switch s.Kind {
	case StepArrive:
		if s.Pet {
			return fmt.Sprintf("%s %s enters the arena", actor, s.Status)
		}
		return fmt.Sprintf("%s enters the arena", actor)
	case StepMove:
		return fmt.Sprintf("%s closes in on %s", actor, target)
	case StepMoveBack:
		return fmt.Sprintf("%s steps back", actor)
	case StepAttemptHit:
		return fmt.Sprintf("%s attacks %s", actor, target)
	case StepHit:
		return fmt.Sprintf("%s hits %s for %d%s", actor, target, s.Damage, crit)
	case StepBlock:
		return fmt.Sprintf("%s blocks %s, taking %d", target, actor, s.Damage)
	case StepEvade:
		return fmt.Sprintf("%s evades %s", target, actor)
	case StepCounter:
		return fmt.Sprintf("%s counters %s for %d", target, actor, s.Damage)
	case StepThrow:
		return fmt.Sprintf("%s throws %s at %s", actor, s.Weapon, target)
	case StepDisarm:
		return fmt.Sprintf("%s disarms %s of %s", actor, target, s.Weapon)
	case StepDeath:
		return fmt.Sprintf("%s falls", actor)
	case StepSkillActivate:
		if s.Status != "" {
			return fmt.Sprintf("%s uses %s: %s is %s", actor, s.Skill, target, s.Status)
		}
		return fmt.Sprintf("%s uses %s", actor, s.Skill)
	case StepSkillExpire:
		return fmt.Sprintf("%s is no longer %s", actor, s.Status)
	case StepPetAssist:
		return fmt.Sprintf("%s joins the attack", actor)
	case StepPoison:
		return fmt.Sprintf("%s suffers %d from %s", actor, s.Damage, s.Status)
	case StepRegeneration:
		return fmt.Sprintf("%s regenerates %d", actor, s.Damage)
	case StepHeal:
		return fmt.Sprintf("%s heals %d with %s", actor, s.Damage, s.Skill)
	case StepEnd:
		return fmt.Sprintf("%s wins", actor)
	case StepEquip:
		return fmt.Sprintf("%s draws %s", actor, s.Weapon)
	case StepSteal:
		return fmt.Sprintf("%s steals %s from %s", actor, s.Weapon, target)
	case StepRest:
		return fmt.Sprintf("%s rests and recovers %d stamina", actor, s.Damage)
	case StepSkip:
		return fmt.Sprintf("%s is %s and loses the turn", actor, s.Status)
	case StepSurvive:
		return fmt.Sprintf("%s refuses to fall (%s)", actor, s.Skill)
	case StepTrap:
		return fmt.Sprintf("%s nets %s", actor, target)
	case StepHypnotize:
		return fmt.Sprintf("%s hypnotizes %s", actor, target)
	case StepOvertime:
		return fmt.Sprintf("time is up; %s leads", actor)
	case StepError:
		return fmt.Sprintf("turn of %s failed: %s", actor, s.Status)
	case StepPetWound:
		return fmt.Sprintf("%s hits %s's pet for %d", actor, target, s.Damage)
	}
	return s.Kind.String()
}

func traceOf(steps []Step, names [2]string) []TraceLine {
	out := make([]TraceLine, len(steps))
	for i, s := range steps {
		tl := TraceLine{
			Index:        i,
			Actor:        names[s.Actor],
			Message:      describe(s, names),
			ActorHealth:  s.ActorHealth,
			TargetHealth: s.TargetHealth,
			ActorStamina: s.ActorStamina,
		}
		if s.Target != NoTarget {
			tl.Target = names[s.Target]
		}
		out[i] = tl
	}
	return out
}
