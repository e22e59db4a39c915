package notice

import (
	"fmt"
	"sort"
	"strings"
)

// ParkProfile is the static identity of one managed park. Loaded from
// configuration, never derived from ledger data.
type ParkProfile struct {
	Code         string
	Name         string
	Address      string
	CityZip      string
	ManagerPhone string
	Email        string
}

// Registry maps park code to profile.
type Registry struct {
	parks map[string]ParkProfile
}

// NewRegistry builds a registry from profiles keyed by code. Codes are
// case-insensitive.
func NewRegistry(profiles map[string]ParkProfile) Registry {
	parks := make(map[string]ParkProfile, len(profiles))
	for code, p := range profiles {
		code = strings.ToLower(strings.TrimSpace(code))
		p.Code = code
		parks[code] = p
	}
	return Registry{parks: parks}
}

// Lookup resolves a park code. An unknown code is a configuration error.
func (r Registry) Lookup(code string) (ParkProfile, error) {
	p, ok := r.parks[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return ParkProfile{}, fmt.Errorf("unknown park %q (known: %s)", code, strings.Join(r.Codes(), ", "))
	}
	return p, nil
}

// Codes lists known park codes, sorted.
func (r Registry) Codes() []string {
	out := make([]string, 0, len(r.parks))
	for code := range r.parks {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
