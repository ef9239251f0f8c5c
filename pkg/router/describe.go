package router

// RecordInfo is a serializable summary of a RouteRecord for tooling.
type RecordInfo struct {
	Path       string            `json:"path"`
	Name       string            `json:"name,omitempty"`
	Parent     string            `json:"parent,omitempty"`
	Regexp     string            `json:"regexp,omitempty"`
	Params     []string          `json:"params,omitempty"`
	Components map[string]string `json:"components,omitempty"`
	Redirect   string            `json:"redirect,omitempty"`
	AliasOf    string            `json:"aliasOf,omitempty"`
	Guarded    bool              `json:"guarded,omitempty"`
	Meta       map[string]any    `json:"meta,omitempty"`
}

// Info summarizes r. Components are listed by name; a lazy component
// without a name shows as "(lazy)".
func (r *RouteRecord) Info() RecordInfo {
	info := RecordInfo{
		Path:    r.Path,
		Name:    r.Name,
		AliasOf: r.MatchAs,
		Guarded: r.BeforeEnter != nil,
		Meta:    r.Meta,
	}
	if r.Parent != nil {
		info.Parent = r.Parent.Path
	}
	if re := r.Regexp(); re != nil {
		info.Regexp = re.String()
	}
	for _, k := range r.Keys() {
		info.Params = append(info.Params, k.Name)
	}
	for slot, c := range r.Components() {
		if c == nil {
			continue
		}
		if info.Components == nil {
			info.Components = make(map[string]string)
		}
		name := c.Name
		if name == "" && c.Lazy() {
			name = "(lazy)"
		}
		info.Components[slot] = name
	}
	if r.Redirect != nil {
		switch {
		case r.Redirect.Func != nil:
			info.Redirect = "(func)"
		case r.Redirect.To.Name != "":
			info.Redirect = "name:" + r.Redirect.To.Name
		default:
			info.Redirect = r.Redirect.To.Path
		}
	}
	return info
}

// Describe summarizes the records in match priority order.
func (t *Table) Describe() []RecordInfo {
	records := t.Records()
	out := make([]RecordInfo, len(records))
	for i, r := range records {
		out[i] = r.Info()
	}
	return out
}
