package core

import "strings"

// FindDuplicate returns the first artifact of the snapshot whose marker
// carries title, or nil. With openOnly set, closed artifacts are ignored.
func FindDuplicate(snapshot *Snapshot, title string, openOnly bool) *Artifact {
	if snapshot == nil {
		return nil
	}

	for i := range snapshot.Artifacts {
		a := &snapshot.Artifacts[i]
		if openOnly && a.State != StateOpen {
			continue
		}

		marker, ok := ParseMarker(a.Body)
		if ok && marker.Title == title {
			return a
		}
	}

	return nil
}

// FindAnnounced reports whether a pull request review comment already
// announced title, either through its marker or its "## title" heading.
func FindAnnounced(snapshot *Snapshot, title string) *Artifact {
	if a := FindDuplicate(snapshot, title, false); a != nil {
		return a
	}
	if snapshot == nil {
		return nil
	}

	heading := "## " + title
	for i := range snapshot.Artifacts {
		a := &snapshot.Artifacts[i]
		first, _, _ := strings.Cut(a.Body, "\n")
		if strings.TrimSpace(first) == heading {
			return a
		}
	}

	return nil
}

// checkSnapshot rejects incomplete listings
func checkSnapshot(snapshot *Snapshot) error {
	if snapshot == nil {
		return nil
	}
	if snapshot.Truncated {
		return &SnapshotTruncatedError{Kind: snapshot.Kind, Collected: len(snapshot.Artifacts)}
	}
	return nil
}
