// Package uninstall sequences a zprof uninstall:
//
//	ValidatePreconditions -> SelectRestoration -> ConfirmDestructive ->
//	[SafetySnapshot] -> ExecuteRestoration -> Cleanup -> Report
//
// Nothing destructive happens before ConfirmDestructive returns an explicit
// yes. A hard restoration failure stops the flow before Cleanup so the
// managed tree, and the pre-install snapshot inside it, stay available for
// recovery.
package uninstall
