package domain

// Review is a user's written opinion of a film. A user reviews a film at most once.
type Review struct {
	ID         int64
	Content    string
	IsPositive bool
	UserID     int64
	FilmID     int64
	Useful     int64
}
