package student

import "strings"

// FilterOptions narrows a batch of records. Empty options match everything.
type FilterOptions struct {
	Branches      []string
	AdmittedYears []string
	FreeWords     string
}

func equalsAny(v string, opts []string) bool {
	for _, o := range opts {
		if strings.EqualFold(strings.TrimSpace(o), v) {
			return true
		}
	}
	return false
}

// Filter returns the records matching every non-empty option. FreeWords are
// whitespace-separated keywords; each must occur (case-insensitively) in
// some field value.
func Filter(recs []Record, opt FilterOptions) []Record {
	var out []Record
	for _, r := range recs {
		if len(opt.Branches) > 0 && !equalsAny(r.Get(Branch), opt.Branches) {
			continue
		}
		if len(opt.AdmittedYears) > 0 && !equalsAny(r.Get(AdmittedYear), opt.AdmittedYears) {
			continue
		}
		if opt.FreeWords != "" {
			var all []string
			for _, l := range Labels {
				all = append(all, strings.ToLower(r.Get(l)))
			}
			hay := strings.Join(all, "\n")
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
