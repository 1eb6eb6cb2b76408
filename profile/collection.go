package profile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vpnetscape/client/common"
)

// maxSortKey groups profiles without a usable display name after every
// named group.
const maxSortKey = "ZZZZZZZZ"

// GetProfiles enumerates the profile storage root and loads every
// discovered profile, honoring waitAll per profile. The callback fires
// once, after all loads complete, with the collection in display
// order. An absent root or zero discovered profiles completes
// immediately with an empty collection.
func GetProfiles(svc Connector, callback func(err error, prfls []*Profile), waitAll bool) {
	root, err := common.GetProfilesDir()
	if err != nil {
		callback(err, nil)
		return
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			callback(nil, []*Profile{})
		} else {
			callback(common.Wrapf(common.ErrRead,
				"profile: Failed to read profiles directory (%s)", err), nil)
		}
		return
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".conf") {
			continue
		}
		paths = append(paths, filepath.Join(root,
			strings.TrimSuffix(name, ".conf")))
	}

	if len(paths) == 0 {
		callback(nil, []*Profile{})
		return
	}

	profiles := make([]*Profile, 0, len(paths))

	waiter := common.NewWaiter(len(paths), func() {
		callback(nil, SortProfiles(profiles))
	})

	for _, pth := range paths {
		prfl := New(pth, svc)
		profiles = append(profiles, prfl)
		prfl.Load(waiter.Done, waitAll)
	}
}

// SortProfiles orders a collection for display: profiles are grouped
// by computed display name, groups are ordered by a case-sensitive
// lexical sort of those names, and discovery order is preserved within
// each group.
func SortProfiles(prfls []*Profile) []*Profile {
	groups := make(map[string][]*Profile)
	var names []string

	for _, prfl := range prfls {
		name, _ := prfl.FormatedNameLogo()
		if name == "" {
			name = maxSortKey
		}

		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], prfl)
	}

	sort.Strings(names)

	sorted := make([]*Profile, 0, len(prfls))
	for _, name := range names {
		sorted = append(sorted, groups[name]...)
	}

	return sorted
}
