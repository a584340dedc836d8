package matcher

// insertExitNode walks every slot reachable from the root — onFalse chains,
// switch cases, and bool branches alike — and installs an Exit at each
// empty one (spec.md §4.8). Run after foldSwitchToBool so it also covers
// Bool's OnTrue/OnFalse branches.
func insertExitNode(slot *Node) {
	if *slot == nil {
		*slot = &Exit{}
		return
	}

	switch n := (*slot).(type) {
	case *Switch:
		for _, a := range n.CaseOrder {
			insertExitNode(n.Cases[a])
		}
		insertExitNode(&n.OnFalse)

	case *Bool:
		insertExitNode(&n.OnTrue)
		insertExitNode(&n.OnFalse)

	case *Success:
		insertExitNode(&n.OnFalse)

	case *Exit:
		// already terminal.
	}
}
