package analyzer

// validateExterns is pass 3: it checks every %externs declaration has
// a recognized kind and, for kind "const", resolves the default-value
// expression's identifiers (against an empty label scope — a default
// value cannot reference a rule's labels) so a default that calls an
// unknown name is caught here instead of surfacing only when a caller
// happens to omit the override.
func (a *analysis) validateExterns () error {
	for name, info := range a.g.Externs {
		switch info.Kind {
		case "const":
			if info.Default != nil {
				if err := a.resolveExpr(newIdentScopes(), info.Default); err != nil {
					return err
				}
			}
		case "func", "pfunc":
			// nothing further to check: the caller supplies the value.
		default:
			return badExternKindError(a.posOf(a.g.Root), name, info.Kind)
		}
	}
	return nil
}
