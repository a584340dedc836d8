package matcher

// foldSwitchToBool recursively rewrites every Switch with exactly one case
// into an equivalent Bool, recursing into both the success and failure
// branches of every node it visits (spec.md §4.7).
func foldSwitchToBool(slot *Node) {
	if slot == nil || *slot == nil {
		return
	}

	switch n := (*slot).(type) {
	case *Switch:
		for _, a := range n.CaseOrder {
			foldSwitchToBool(n.Cases[a])
		}
		foldSwitchToBool(&n.OnFalse)

		if len(n.CaseOrder) == 1 {
			answer := n.CaseOrder[0]
			*slot = &Bool{
				Position:       n.Position,
				Question:       n.Question,
				ExpectedAnswer: answer,
				OnTrue:         *n.Cases[answer],
				OnFalse:        n.OnFalse,
			}
		}

	case *Bool:
		foldSwitchToBool(&n.OnTrue)
		foldSwitchToBool(&n.OnFalse)

	case *Success:
		foldSwitchToBool(&n.OnFalse)

	case *Exit:
		// terminal, nothing to fold.
	}
}
