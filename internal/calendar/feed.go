package calendar

// BuildFeed assembles a single ICS document containing one VEVENT per event.
// Events without a resolvable start date are skipped rather than failing the
// whole feed.
func (b *Builder) BuildFeed(events []Event) string {
	var lines []string
	for _, ev := range events {
		r := Merge(ev, nil)
		w, ok := b.resolveWindow(r)
		if !ok {
			continue
		}
		lines = append(lines, b.eventLines(r, w)...)
	}
	return b.icsDocument(lines)
}
