package events

// SportGroup agrupa ligas por categoria (ex.: "Basketball" → NBA, NCAAB)
type SportGroup struct {
	Group  string  `json:"group"`
	Sports []Sport `json:"sports"`
}

// GroupSports agrupa as ligas ativas por Group, na ordem em que cada grupo aparece
func GroupSports(sports []Sport) []SportGroup {
	out := []SportGroup{}
	idx := make(map[string]int)
	for _, s := range sports {
		if !s.Active {
			continue
		}
		i, ok := idx[s.Group]
		if !ok {
			i = len(out)
			idx[s.Group] = i
			out = append(out, SportGroup{Group: s.Group})
		}
		out[i].Sports = append(out[i].Sports, s)
	}
	return out
}
