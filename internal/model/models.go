package model

import "time"

type UserRole string

const (
	RoleUser      UserRole = "User"
	RoleModerator UserRole = "Moderator"
	RoleAdmin     UserRole = "Admin"
)

type UserPreferences struct {
	Notifications bool `json:"notifications"`
	Autoplay      bool `json:"autoplay"`
}

type User struct {
	ID          string           `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	Avatar      string           `json:"avatar,omitempty"`
	Role        UserRole         `json:"role"`
	CreatedAt   time.Time        `json:"created_at"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}

type Anime struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Image         string   `json:"image"`
	Cover         string   `json:"cover,omitempty"`
	Description   string   `json:"description,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	TotalEpisodes int      `json:"totalEpisodes,omitempty"`
	Type          string   `json:"type,omitempty"`
	Status        string   `json:"status,omitempty"`
	Rank          float64  `json:"rank,omitempty"`
	Popularity    float64  `json:"popularity,omitempty"`
	Members       int      `json:"members,omitempty"`
	Likes         int      `json:"likes,omitempty"`
	Studios       []string `json:"studios,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Season        string   `json:"season,omitempty"`
	TitleJapanese string   `json:"title_japanese,omitempty"`
}

// IsMovie reports whether the embed providers should use their movie templates.
func (a Anime) IsMovie() bool {
	return a.Type == TypeMovie
}

const (
	TypeMovie  = "movie"
	TypeSeries = "tv"
)

type HistoryItem struct {
	Anime       Anime     `json:"anime"`
	WatchedAt   time.Time `json:"watchedAt"`
	Progress    int       `json:"progress"` // 0-100
	LastEpisode int       `json:"lastEpisode"`
}

type UserStats struct {
	TotalWatched int           `json:"totalWatched"`
	TopGenre     string        `json:"topGenre"`
	TotalHours   int           `json:"totalHours"`
	History      []HistoryItem `json:"history"`
}

type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindInfo    NotificationKind = "info"
	KindUpdate  NotificationKind = "update"
)

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title,omitempty"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"type"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	Timestamp time.Time        `json:"timestamp"`
}

type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	Content    string    `json:"content"`
	AnimeID    string    `json:"anime_id"`
	CreatedAt  time.Time `json:"created_at"`
	Likes      int       `json:"likes"`
}

type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

type Episode struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Number  int     `json:"episode"`
	Season  int     `json:"season"`
	AirDate string  `json:"aired,omitempty"`
	Score   float64 `json:"score"`
	Image   string  `json:"image,omitempty"`
}

type SeasonInfo struct {
	Number       int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
}

type Character struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Image      string      `json:"image"`
	Role       string      `json:"role"` // Main, Supporting
	VoiceActor *VoiceActor `json:"voice_actor,omitempty"`
}

type VoiceActor struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Language string `json:"language"`
}

type Relation struct {
	Relation string          `json:"relation"`
	Entries  []RelationEntry `json:"entry"`
}

type RelationEntry struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
