// Package artist provides the Artist domain entity.
package artist

// Artist represents an artist a post can be tagged with.
// Contains only information retrieved from the Spotify API.
type Artist struct {
	ID         string   // Spotify Artist ID
	Name       string   // Artist name
	Genres     []string // Genres
	ImageURL   string   // Largest profile image URL
	URL        string   // Spotify URL
	Popularity int      // Popularity score (0-100)
}

// ContainsID reports whether ids contains id.
func ContainsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
