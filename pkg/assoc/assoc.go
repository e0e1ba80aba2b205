// Package assoc builds the deterministic store-operation plan that
// registers file-type associations.
//
// Ordering is part of the contract. Ops for one extension go owner list
// first, then the progId key, then its children, so a child key is never
// written before the key that owns it; uninstall walks the recorded
// sequence backwards. Rollback policy is authored here per operation and
// never inferred from the shape of a path.
package assoc

import (
	"fmt"
	"strings"

	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/tasks"
	"github.com/codename-B/OneText/pkg/types"
)

const (
	// ClassesRoot is where per-user file-type registrations live
	ClassesRoot = `Software\Classes`

	// OpenWithKey is the multi-owner list under an extension key. Other
	// applications may hold entries there, so the plan only ever appends
	// its own named value and never touches the siblings.
	OpenWithKey = "OpenWithProgids"

	// ApplicationsKey holds per-executable registrations
	ApplicationsKey = "Applications"

	// FriendlyAppNameValue labels the executable in open-with pickers
	FriendlyAppNameValue = "FriendlyAppName"
)

// ProgIDFor returns the rule's identity key, deriving
// <AppName without spaces>.<ext without dot> when the manifest leaves it
// blank
func ProgIDFor(man *types.Manifest, rule types.AssociationRule) string {
	if rule.ProgID != "" {
		return rule.ProgID
	}
	name := strings.ReplaceAll(man.AppName, " ", "")
	return name + "." + strings.TrimPrefix(rule.Extension, ".")
}

// OpenCommandFor returns the rule's expanded open command, defaulting to
// the quoted executable with the document as its single argument
func OpenCommandFor(man *types.Manifest, rule types.AssociationRule, installDir string) string {
	if rule.OpenCommand != "" {
		return types.ExpandApp(rule.OpenCommand, installDir)
	}
	return defaultOpenCommand(man, installDir)
}

// IconRefFor returns the rule's expanded icon reference, defaulting to
// the executable's first embedded icon
func IconRefFor(man *types.Manifest, rule types.AssociationRule, installDir string) string {
	if rule.IconRef != "" {
		return types.ExpandApp(rule.IconRef, installDir)
	}
	return types.AppPath(installDir, man.ExeName()) + ",0"
}

func defaultOpenCommand(man *types.Manifest, installDir string) string {
	return fmt.Sprintf(`"%s" "%%1"`, types.AppPath(installDir, man.ExeName()))
}

// BuildPlan derives the ordered store operations for every selected
// association rule, in manifest order, followed by the application
// registration that backs them. Rules whose gating task is deselected
// contribute nothing. A manifest with no selected rules yields an empty
// plan: without associations there is nothing to register the
// application for.
func BuildPlan(man *types.Manifest, sel tasks.Selection, installDir string) []types.StoreOp {
	var plan []types.StoreOp

	selected := 0
	for _, rule := range man.Associations {
		if !sel.Selected(rule.GatingTask) {
			continue
		}
		selected++
		progID := ProgIDFor(man, rule)

		plan = append(plan,
			types.StoreOp{
				Path:      key(ClassesRoot, rule.Extension, OpenWithKey),
				ValueName: progID,
				Data:      "",
				Rollback:  types.RollbackDeleteValue,
				Task:      rule.GatingTask,
			},
			types.StoreOp{
				Path:      key(ClassesRoot, progID),
				ValueName: "",
				Data:      rule.FriendlyName,
				Rollback:  types.RollbackDeleteKey,
				Task:      rule.GatingTask,
			},
			types.StoreOp{
				Path:      key(ClassesRoot, progID, "DefaultIcon"),
				ValueName: "",
				Data:      IconRefFor(man, rule, installDir),
				Rollback:  types.RollbackNone,
				Task:      rule.GatingTask,
			},
			types.StoreOp{
				Path:      key(ClassesRoot, progID, "shell", "open", "command"),
				ValueName: "",
				Data:      OpenCommandFor(man, rule, installDir),
				Rollback:  types.RollbackNone,
				Task:      rule.GatingTask,
			},
		)
	}

	if selected == 0 {
		return plan
	}

	appKey := key(ClassesRoot, ApplicationsKey, man.ExeName())
	plan = append(plan,
		types.StoreOp{
			Path:      appKey,
			ValueName: FriendlyAppNameValue,
			Data:      man.AppName,
			Rollback:  types.RollbackDeleteKey,
		},
		types.StoreOp{
			Path:      key(appKey, "shell", "open", "command"),
			ValueName: "",
			Data:      defaultOpenCommand(man, installDir),
			Rollback:  types.RollbackNone,
		},
	)
	return plan
}

func key(parts ...string) string {
	return strings.Join(parts, store.Separator)
}
