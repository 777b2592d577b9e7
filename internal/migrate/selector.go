package migrate

import "golang.org/x/mod/semver"

// PlanFor filters the step catalogue down to the steps applicable to a
// project detected at the given version (canonical "vX.Y.Z" form).
//
// A step applies when the detected version predates the version that
// introduced it. A project already at or beyond this build's own version
// gets an empty plan: running an old kit against a newer project is a
// forward-compatible no-op, never an error.
func PlanFor(detected string) Plan {
	if semver.Compare(detected, ToolVersion) >= 0 {
		return nil
	}

	var plan Plan
	for _, s := range steps {
		if semver.Compare(detected, s.IntroducedIn) < 0 {
			plan = append(plan, s)
		}
	}
	return plan
}
