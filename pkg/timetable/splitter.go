package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"schedulectl/pkg/schedule"
)

var (
	// "1.", "2. " and so on, marking subgroup parts inside a cell
	markerRe = regexp.MustCompile(`(\d+)\.\s*`)
	// room annotations like "(к)" or "(лаб.)"
	parenRe = regexp.MustCompile(`\([^)]*\)`)
	// room numbers with an optional annotation, or a dash placeholder
	roomTokenRe = regexp.MustCompile(`\d+(?:\s*\([^)]*\))?|[-—]`)
)

// segment is the text following one subgroup marker
type segment struct {
	Text    string
	Ordinal int
}

// SplitSubgroups turns the raw subject and room text of one cell pair into subgroup records.
// It never fails: irregular input degrades to a less precise split instead.
func SplitSubgroups(subject, room string) []schedule.Subgroup {
	subject = strings.TrimSpace(subject)
	room = strings.TrimSpace(room)

	subjectHasMarkers := hasMarkers(subject)
	roomHasMarkers := hasMarkers(room)

	switch {
	case subjectHasMarkers:
		return finalize(splitMarkedSubject(subject, room))
	case roomHasMarkers:
		return finalize(splitMarkedRoom(subject, room))
	default:
		return []schedule.Subgroup{{Subject: subject, Room: cleanRoom(room)}}
	}
}

func hasMarkers(s string) bool {
	return markerRe.MatchString(s)
}

// splitByMarkers returns the trimmed text after every marker, up to the next marker.
// Anything before the first marker is dropped.
func splitByMarkers(s string) []segment {
	matches := markerRe.FindAllStringSubmatchIndex(s, -1)
	segments := make([]segment, 0, len(matches))
	for i, m := range matches {
		end := len(s)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		ordinal, _ := strconv.Atoi(s[m[2]:m[3]])
		segments = append(segments, segment{
			Text:    strings.TrimSpace(s[m[1]:end]),
			Ordinal: ordinal,
		})
	}
	return segments
}

// cleanRoom strips annotations and maps dash placeholders to an empty room.
func cleanRoom(s string) string {
	s = strings.Join(strings.Fields(parenRe.ReplaceAllString(s, " ")), " ")
	if isDash(s) {
		return ""
	}
	return s
}

func isDash(s string) bool {
	s = strings.TrimSpace(s)
	return s == "-" || s == "—"
}

// IsEmptyCell reports whether the text is blank or a dash placeholder.
func IsEmptyCell(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || isDash(s)
}

func splitMarkedSubject(subject, room string) []schedule.Subgroup {
	segments := splitByMarkers(subject)
	rooms := roomsFor(segments, room)

	out := make([]schedule.Subgroup, 0, len(segments))
	for i, seg := range segments {
		out = append(out, schedule.Subgroup{
			Subject: seg.Text,
			Room:    rooms[i],
			Number:  schedule.IntPtr(seg.Ordinal),
		})
	}
	return out
}

func splitMarkedRoom(subject, room string) []schedule.Subgroup {
	segments := splitByMarkers(room)
	out := make([]schedule.Subgroup, 0, len(segments))
	for _, seg := range segments {
		out = append(out, schedule.Subgroup{
			Subject: subject,
			Room:    cleanRoom(seg.Text),
			Number:  schedule.IntPtr(seg.Ordinal),
		})
	}
	return out
}

// roomsFor picks one room per subject segment, trying the splitters from most to least precise.
func roomsFor(segments []segment, room string) []string {
	n := len(segments)

	if hasMarkers(room) {
		return pairMarkedRooms(segments, splitByMarkers(room))
	}

	cleaned := cleanRoom(room)
	if cleaned == "" {
		return make([]string, n)
	}
	if n == 1 {
		return []string{cleaned}
	}

	if rooms, ok := splitRoomByTokens(room, n); ok {
		return rooms
	}
	if rooms, ok := splitRoomByCommas(room, n); ok {
		return rooms
	}
	if rooms, ok := splitRoomByWhitespace(room, n); ok {
		return rooms
	}
	return duplicateRoom(cleaned, n)
}

// pairMarkedRooms matches room parts to subject parts by ordinal, then by position.
func pairMarkedRooms(segments, roomSegments []segment) []string {
	byOrdinal := make(map[int]string, len(roomSegments))
	for _, rs := range roomSegments {
		if _, seen := byOrdinal[rs.Ordinal]; !seen {
			byOrdinal[rs.Ordinal] = rs.Text
		}
	}

	rooms := make([]string, len(segments))
	for i, seg := range segments {
		if text, ok := byOrdinal[seg.Ordinal]; ok {
			rooms[i] = cleanRoom(text)
		} else if i < len(roomSegments) {
			rooms[i] = cleanRoom(roomSegments[i].Text)
		}
	}
	return rooms
}

// splitRoomByTokens extracts room numbers (with optional annotation) and lone dashes.
func splitRoomByTokens(room string, n int) ([]string, bool) {
	var tokens []string
	for _, loc := range roomTokenRe.FindAllStringIndex(room, -1) {
		token := room[loc[0]:loc[1]]
		if isDash(token) && !isLoneToken(room, loc[0], loc[1]) {
			continue
		}
		tokens = append(tokens, cleanRoom(token))
	}
	if len(tokens) == 0 {
		return nil, false
	}
	return fitCount(tokens, n, cleanRoom(room)), true
}

// isLoneToken reports whether s[start:end] is delimited by whitespace, commas or the string bounds.
func isLoneToken(s string, start, end int) bool {
	isDelim := func(b byte) bool {
		return b == ' ' || b == ',' || b == ';' || b == '\t'
	}
	if start > 0 && !isDelim(s[start-1]) {
		return false
	}
	if end < len(s) && !isDelim(s[end]) {
		return false
	}
	return true
}

// splitRoomByCommas accepts comma-separated rooms when there are at least n of them.
func splitRoomByCommas(room string, n int) ([]string, bool) {
	if !strings.Contains(room, ",") {
		return nil, false
	}
	var parts []string
	for _, p := range strings.Split(room, ",") {
		parts = append(parts, cleanRoom(p))
	}
	if len(parts) < n {
		return nil, false
	}
	return parts[:n], true
}

// splitRoomByWhitespace is only trusted when the word count matches exactly.
func splitRoomByWhitespace(room string, n int) ([]string, bool) {
	if strings.ContainsAny(room, ",()") {
		return nil, false
	}
	fields := strings.Fields(room)
	if len(fields) != n {
		return nil, false
	}
	for i, f := range fields {
		fields[i] = cleanRoom(f)
	}
	return fields, true
}

func duplicateRoom(room string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = room
	}
	return out
}

// fitCount pads with the last element (or fallback when empty) or truncates to exactly n.
func fitCount(parts []string, n int, fallback string) []string {
	if len(parts) >= n {
		return parts[:n]
	}
	fill := fallback
	if len(parts) > 0 {
		fill = parts[len(parts)-1]
	}
	for len(parts) < n {
		parts = append(parts, fill)
	}
	return parts
}

// finalize drops empty entries and makes sure subgroups 1 and 2 are both present when numbered.
func finalize(subgroups []schedule.Subgroup) []schedule.Subgroup {
	out := make([]schedule.Subgroup, 0, len(subgroups)+2)
	numbered := false
	for _, sg := range subgroups {
		if isDash(sg.Room) {
			sg.Room = ""
		}
		if sg.Subject == "" {
			continue
		}
		if sg.Number != nil {
			numbered = true
		}
		out = append(out, sg)
	}
	if !numbered {
		return out
	}

	for _, ordinal := range []int{1, 2} {
		if !hasOrdinal(out, ordinal) {
			out = append(out, schedule.Subgroup{Number: schedule.IntPtr(ordinal)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ordinalOf(out[i]) < ordinalOf(out[j])
	})
	return out
}

func hasOrdinal(subgroups []schedule.Subgroup, ordinal int) bool {
	for _, sg := range subgroups {
		if sg.Number != nil && *sg.Number == ordinal {
			return true
		}
	}
	return false
}

func ordinalOf(sg schedule.Subgroup) int {
	if sg.Number == nil {
		return 0
	}
	return *sg.Number
}
