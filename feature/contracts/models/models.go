package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the cross-season identity.
type User struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	DiscordID  *string   `gorm:"column:discord_id;type:varchar(32);uniqueIndex" json:"discord_id,omitempty"`
	Username   string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null" json:"username"`
	Rep        *string   `gorm:"column:rep;type:varchar(64)" json:"rep,omitempty"`
	Generation *int      `gorm:"column:generation" json:"generation,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "user"
}

// UserAlias maps a historical or alternate username to a user.
// Aliases are stored lower-cased and are not unique across users.
type UserAlias struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID   string `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Username string `gorm:"column:username;type:varchar(64);index;not null" json:"username"`
}

func (UserAlias) TableName() string {
	return "user_alias"
}

// Season is a registered event instance.
type Season struct {
	ID            string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name          string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Layout        string    `gorm:"column:layout;type:varchar(64);not null" json:"layout"`
	SpreadsheetID string    `gorm:"column:spreadsheet_id;type:varchar(128)" json:"spreadsheet_id,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Season) TableName() string {
	return "season"
}

// SeasonUser is one user's participation in a season.
type SeasonUser struct {
	SeasonID        string     `gorm:"column:season_id;primaryKey;type:varchar(64)" json:"season_id"`
	UserID          string     `gorm:"column:user_id;primaryKey;type:varchar(36)" json:"user_id"`
	Status          UserStatus `gorm:"column:status;not null;default:0" json:"status"`
	Kind            Kind       `gorm:"column:kind;not null;default:0" json:"kind"`
	Rep             *string    `gorm:"column:rep;type:varchar(64)" json:"rep,omitempty"`
	ContractorID    *string    `gorm:"column:contractor_id;type:varchar(36);index" json:"contractor_id,omitempty"`
	ListURL         string     `gorm:"column:list_url;type:varchar(512)" json:"list_url,omitempty"`
	VetoUsed        bool       `gorm:"column:veto_used;not null;default:false" json:"veto_used"`
	AcceptingManhwa bool       `gorm:"column:accepting_manhwa;not null;default:false" json:"accepting_manhwa"`
	AcceptingLN     bool       `gorm:"column:accepting_ln;not null;default:false" json:"accepting_ln"`
	Preferences     string     `gorm:"column:preferences;type:text" json:"preferences,omitempty"`
	Bans            string     `gorm:"column:bans;type:text" json:"bans,omitempty"`
}

func (SeasonUser) TableName() string {
	return "season_user"
}

// SeasonContract is one contract slot. (season, contractee, type) is unique.
type SeasonContract struct {
	ID           uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SeasonID     string         `gorm:"column:season_id;type:varchar(64);not null;uniqueIndex:idx_season_contract_slot,priority:1" json:"season_id"`
	ContracteeID string         `gorm:"column:contractee_id;type:varchar(36);not null;uniqueIndex:idx_season_contract_slot,priority:2" json:"contractee_id"`
	Type         string         `gorm:"column:type;type:varchar(64);not null;uniqueIndex:idx_season_contract_slot,priority:3" json:"type"`
	Name         string         `gorm:"column:name;type:varchar(512);not null" json:"name"`
	Kind         Kind           `gorm:"column:kind;not null;default:0" json:"kind"`
	Status       ContractStatus `gorm:"column:status;not null;default:0" json:"status"`
	Optional     bool           `gorm:"column:optional;not null;default:false" json:"optional"`
	Contractor   string         `gorm:"column:contractor;type:varchar(64)" json:"contractor,omitempty"`
	Progress     string         `gorm:"column:progress;type:varchar(64)" json:"progress,omitempty"`
	Rating       string         `gorm:"column:rating;type:varchar(64)" json:"rating,omitempty"`
	ReviewURL    string         `gorm:"column:review_url;type:varchar(512)" json:"review_url,omitempty"`
	Medium       string         `gorm:"column:medium;type:varchar(64)" json:"medium,omitempty"`
	MediaType    *string        `gorm:"column:media_type;type:varchar(16)" json:"media_type,omitempty"`
	MediaID      *string        `gorm:"column:media_id;type:varchar(32)" json:"media_id,omitempty"`
}

func (SeasonContract) TableName() string {
	return "season_contract"
}

// Badge is a collectible in the global catalog.
type Badge struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(128);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Artist      string    `gorm:"column:artist;type:varchar(64)" json:"artist,omitempty"`
	URL         string    `gorm:"column:url;type:varchar(512)" json:"url,omitempty"`
	Type        string    `gorm:"column:type;type:varchar(32)" json:"type,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Badge) TableName() string {
	return "badge"
}

// UserBadge records badge ownership.
type UserBadge struct {
	UserID    string    `gorm:"column:user_id;primaryKey;type:varchar(36)" json:"user_id"`
	BadgeID   uint      `gorm:"column:badge_id;primaryKey" json:"badge_id"`
	AwardedAt time.Time `gorm:"column:awarded_at" json:"awarded_at"`
}

func (UserBadge) TableName() string {
	return "user_badge"
}

// Media is cached metadata for an external title. Type is "anilist" or "steam".
type Media struct {
	Type        string    `gorm:"column:type;primaryKey;type:varchar(16)" json:"type"`
	ID          string    `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(512)" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Medium      string    `gorm:"column:medium;type:varchar(32)" json:"medium,omitempty"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}

// MediaAnilist holds AniList specific details.
type MediaAnilist struct {
	ID          string  `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	URL         string  `gorm:"column:url;type:varchar(256)" json:"url"`
	Format      string  `gorm:"column:format;type:varchar(32)" json:"format,omitempty"`
	IsAdult     bool    `gorm:"column:is_adult;not null;default:false" json:"is_adult"`
	CoverImage  *string `gorm:"column:cover_image;type:varchar(512)" json:"cover_image,omitempty"`
	CoverColor  *string `gorm:"column:cover_color;type:varchar(16)" json:"cover_color,omitempty"`
	MalID       *string `gorm:"column:mal_id;type:varchar(32);index" json:"mal_id,omitempty"`
	StartDate   *string `gorm:"column:start_date;type:varchar(10)" json:"start_date,omitempty"`
	EndDate     *string `gorm:"column:end_date;type:varchar(10)" json:"end_date,omitempty"`
	RomajiName  *string `gorm:"column:romaji_name;type:varchar(512)" json:"romaji_name,omitempty"`
	EnglishName *string `gorm:"column:english_name;type:varchar(512)" json:"english_name,omitempty"`
	NativeName  *string `gorm:"column:native_name;type:varchar(512)" json:"native_name,omitempty"`
	Episodes    *int    `gorm:"column:episodes" json:"episodes,omitempty"`
	Chapters    *int    `gorm:"column:chapters" json:"chapters,omitempty"`
	Volumes     *int    `gorm:"column:volumes" json:"volumes,omitempty"`
}

func (MediaAnilist) TableName() string {
	return "media_anilist"
}

// MediaSteam holds Steam store details.
type MediaSteam struct {
	ID          string  `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
	URL         string  `gorm:"column:url;type:varchar(256)" json:"url"`
	Developer   string  `gorm:"column:developer;type:varchar(256)" json:"developer,omitempty"`
	Publisher   *string `gorm:"column:publisher;type:varchar(256)" json:"publisher,omitempty"`
	ReleaseDate *string `gorm:"column:release_date;type:varchar(64)" json:"release_date,omitempty"`
	HeaderImage *string `gorm:"column:header_image;type:varchar(512)" json:"header_image,omitempty"`
}

func (MediaSteam) TableName() string {
	return "media_steam"
}

// MediaNoMatch remembers ids the external services could not resolve.
// Type is "anilist", "mal" or "steam".
type MediaNoMatch struct {
	Type string `gorm:"column:type;primaryKey;type:varchar(16)" json:"type"`
	ID   string `gorm:"column:id;primaryKey;type:varchar(32)" json:"id"`
}

func (MediaNoMatch) TableName() string {
	return "media_no_match"
}

// BotConfig is a key/value settings table editable without a redeploy.
type BotConfig struct {
	Key   string `gorm:"column:key;primaryKey;type:varchar(64)" json:"key"`
	Value string `gorm:"column:value;type:text" json:"value"`
}

func (BotConfig) TableName() string {
	return "bot_config"
}

// SyncLease marks the process currently running a sync pass. Rows past
// ExpiresAt belong to a holder that died mid-pass and may be taken over.
type SyncLease struct {
	Name      string    `gorm:"column:name;primaryKey;type:varchar(64)" json:"name"`
	Holder    string    `gorm:"column:holder;type:varchar(36);not null" json:"holder"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
}

func (SyncLease) TableName() string {
	return "sync_lease"
}

// All lists every table for migrations.
func All() []any {
	return []any{
		&User{}, &UserAlias{}, &Season{}, &SeasonUser{}, &SeasonContract{},
		&Badge{}, &UserBadge{},
		&Media{}, &MediaAnilist{}, &MediaSteam{}, &MediaNoMatch{},
		&BotConfig{}, &SyncLease{},
	}
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
