package registry

// Resolution is the result of looking up a (kind, id) reference.
// Absence is represented, never thrown: a missing target yields a Resolution
// whose Record is nil while Kind and ID keep the original reference for
// diagnostics.
type Resolution struct {
	Kind   string
	ID     string
	Record *Record
}

// Missing reports whether the reference did not resolve to a record.
func (res Resolution) Missing() bool {
	return res.Record == nil
}

// Field returns a field of the resolved record, or nil when the reference
// is missing or the field absent.
func (res Resolution) Field(name string) any {
	if res.Record == nil || res.Record.Fields == nil {
		return nil
	}
	return res.Record.Fields[name]
}

// Resolve looks up a record by kind and canonical identifier. It never
// fails and is safe to call concurrently; extractors call it once per
// cross-referenced field.
func (r *Registry) Resolve(kind, id string) Resolution {
	res := Resolution{Kind: kind, ID: id}
	if id == "" {
		return res
	}
	res.Record = r.byKey[key{kind: kind, id: id}]
	return res
}

// ResolveRef resolves a raw reference node. Save cross-references are
// {"value": N} objects; bare scalars are accepted for robustness.
func (r *Registry) ResolveRef(kind string, ref any) Resolution {
	return r.Resolve(kind, RefID(ref))
}

// RefID extracts the canonical identifier from a raw reference node,
// returning "" when the node does not carry one.
func RefID(ref any) string {
	switch v := ref.(type) {
	case map[string]any:
		return FormatID(v["value"])
	default:
		return FormatID(ref)
	}
}
