package util

import (
	"fmt"
	"strconv"
	"strings"
)

type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Beta       bool
	Alpha      bool
	Prerelease int
}

func ParseSemver(semver string) (Semver, error) {
	s := Semver{}
	split := strings.SplitN(semver, ".", 3)
	if len(split) != 3 {
		return Semver{}, fmt.Errorf("invalid version %q: want major.minor.patch", semver)
	}
	major, err := strconv.Atoi(split[0])
	if err != nil {
		return Semver{}, err
	}
	s.Major = major

	minor, err := strconv.Atoi(split[1])
	if err != nil {
		return Semver{}, err
	}
	s.Minor = minor

	patch := strings.SplitN(split[2], "-", 2)
	patchNum, err := strconv.Atoi(patch[0])
	if err != nil {
		return Semver{}, err
	}
	s.Patch = patchNum

	if len(patch) > 1 {
		kind, num, ok := strings.Cut(patch[1], ".")
		if !ok {
			return Semver{}, fmt.Errorf("invalid prerelease: %s", patch[1])
		}
		switch kind {
		case "beta":
			s.Beta = true
		case "alpha":
			s.Alpha = true
		default:
			return Semver{}, fmt.Errorf("invalid prerelease type: %s", kind)
		}
		s.Prerelease, err = strconv.Atoi(num)
		if err != nil {
			return Semver{}, err
		}
	}

	return s, nil
}

func (s Semver) String() string {
	str := strconv.Itoa(s.Major) + "." + strconv.Itoa(s.Minor) + "." + strconv.Itoa(s.Patch)
	if s.Beta {
		str += "-beta." + strconv.Itoa(s.Prerelease)
	} else if s.Alpha {
		str += "-alpha." + strconv.Itoa(s.Prerelease)
	}
	return str
}

// Compare orders versions by major, minor and patch. Prereleases are ignored.
func (s Semver) Compare(o Semver) int {
	for _, d := range []int{s.Major - o.Major, s.Minor - o.Minor, s.Patch - o.Patch} {
		if d != 0 {
			if d < 0 {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Satisfies checks s against a constraint: an exact version, "~x.y.z" (same
// minor), "^x.y.z" (same major), ">x.y.z" or "<x.y.z".
func (s Semver) Satisfies(cmp string) (bool, error) {
	op := ""
	if strings.ContainsAny(cmp[:min(1, len(cmp))], "~^<>") {
		op, cmp = cmp[:1], cmp[1:]
	}

	c, err := ParseSemver(cmp)
	if err != nil {
		return false, err
	}

	switch op {
	case "~":
		return s.Major == c.Major && s.Minor == c.Minor && s.Compare(c) >= 0, nil
	case "^":
		return s.Major == c.Major && s.Compare(c) >= 0, nil
	case ">":
		return s.Compare(c) > 0, nil
	case "<":
		return s.Compare(c) < 0, nil
	}
	return s.Compare(c) == 0, nil
}
