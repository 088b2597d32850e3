package services

// Distinct entfernt Duplikate und behält die Reihenfolge des ersten Auftretens.
// Der Vergleich ist exakt: "Flamengo" und "FLAMENGO" bleiben beide erhalten.
func Distinct(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
