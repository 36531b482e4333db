package roster

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"

	"github.com/google/uuid"
)

// Upload prefixes in blob storage
const (
	PlayerPhotoPrefix = "player-photos"
	TeamLogoPrefix    = "team-logos"
)

// Uploader stores a file and returns the URL it can be read back from.
// Remove deletes a stored file whose record was never saved.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}

// Upload is a file chosen in an editor form
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadPath builds "<prefix>/<unix millis>_<file name>"
func UploadPath(prefix, fileName string, now time.Time) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%d_%s", prefix, now.UnixMilli(), name)
}

func upload(ctx context.Context, uploader Uploader, prefix string, file *Upload, now time.Time) (string, string, error) {
	path := UploadPath(prefix, file.FileName, now)
	url, err := uploader.Upload(ctx, path, file.Data, file.ContentType)
	if err != nil {
		if apperrors.IsUpload(err) {
			return "", "", err
		}
		return "", "", apperrors.NewUploadError(path, err)
	}
	return path, url, nil
}

// discard removes an upload left behind by a failed save. Failures are
// only logged; the save error is what the caller reports.
func discard(ctx context.Context, uploader Uploader, path string) {
	if path == "" {
		return
	}
	if err := uploader.Remove(ctx, path); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("path", path).Warn("Failed to remove orphaned upload")
	}
}

// PlayerEditor stages changes to one player. The staged copy shares no
// memory with the record it was opened from.
type PlayerEditor struct {
	id     uuid.UUID
	staged models.Player
	photo  *Upload
	now    func() time.Time
}

// NewPlayerEditor opens an editor on player; nil opens a blank form
func NewPlayerEditor(player *models.Player) *PlayerEditor {
	e := &PlayerEditor{now: time.Now}
	e.reset(player)
	return e
}

func (e *PlayerEditor) reset(player *models.Player) {
	e.photo = nil
	if player == nil {
		e.id = uuid.Nil
		e.staged = models.Player{Position: models.DefaultPosition}
		return
	}
	e.id = player.ID
	e.staged = player.Clone()
}

// Bind re-opens the editor when player is a different record (or the
// new/existing mode changes) and keeps staged edits otherwise.
func (e *PlayerEditor) Bind(player *models.Player) {
	id := uuid.Nil
	if player != nil {
		id = player.ID
	}
	if id != e.id {
		e.reset(player)
	}
}

// ID returns the record being edited; uuid.Nil for a new player
func (e *PlayerEditor) ID() uuid.UUID { return e.id }

// IsNew reports whether the editor creates a new player
func (e *PlayerEditor) IsNew() bool { return e.id == uuid.Nil }

// Staged returns a copy of the staged player
func (e *PlayerEditor) Staged() models.Player { return e.staged.Clone() }

// Photo returns the chosen photo file, if any
func (e *PlayerEditor) Photo() *Upload { return e.photo }

// SetPhoto chooses the photo file uploaded on save; nil clears it
func (e *PlayerEditor) SetPhoto(file *Upload) { e.photo = file }

// Set parses value and stores it in field. The staged copy is replaced,
// never modified in place, and is left untouched when parsing fails.
func (e *PlayerEditor) Set(field, value string) error {
	next := e.staged.Clone()
	switch field {
	case "first_name":
		next.FirstName = value
	case "last_name":
		next.LastName = value
	case "nationality":
		next.Nationality = value
	case "agent":
		next.Agent = value
	case "photo_url":
		next.PhotoURL = strings.TrimSpace(value)
	case "position":
		pos := models.Position(strings.ToUpper(strings.TrimSpace(value)))
		if pos == "" {
			pos = models.DefaultPosition
		}
		if !pos.IsValid() {
			return apperrors.NewValidationError(field, fmt.Sprintf("unknown position %q", value))
		}
		next.Position = pos
	case "date_of_birth":
		d, err := parseDate(field, value)
		if err != nil {
			return err
		}
		next.DateOfBirth = d
	case "contract_until":
		d, err := parseDate(field, value)
		if err != nil {
			return err
		}
		next.ContractUntil = d
	case "market_value":
		v, err := parseNumber(field, value)
		if err != nil {
			return err
		}
		next.MarketValue = v
	case "team_id":
		id, err := parseOptionalUUID(field, value)
		if err != nil {
			return err
		}
		next.TeamID = id
	case "top_talent":
		b, err := parseBool(field, value)
		if err != nil {
			return err
		}
		next.TopTalent = b
	case "name":
		return apperrors.NewValidationError(field, "is derived from first and last name")
	default:
		return apperrors.NewValidationError(field, "unknown field")
	}
	e.staged = next
	return nil
}

// Save uploads the chosen photo, if any, and hands the staged player to
// onSave with its name recomputed. A failed upload aborts before onSave;
// when onSave fails the fresh upload is removed again.
// The editor itself is left unchanged.
func (e *PlayerEditor) Save(ctx context.Context, uploader Uploader, onSave func(context.Context, models.Player) error) error {
	player := e.staged.Clone()
	player.ID = e.id
	var uploaded string
	if e.photo != nil {
		path, url, err := upload(ctx, uploader, PlayerPhotoPrefix, e.photo, e.now())
		if err != nil {
			return err
		}
		uploaded = path
		player.PhotoURL = url
	}
	player.Name = models.DisplayName(player.FirstName, player.LastName)
	if err := onSave(ctx, player); err != nil {
		discard(ctx, uploader, uploaded)
		return err
	}
	return nil
}

// Cancel discards staged edits
func (e *PlayerEditor) Cancel() {
	e.photo = nil
}

// TeamEditor stages changes to one team
type TeamEditor struct {
	id     uuid.UUID
	staged models.Team
	logo   *Upload
	now    func() time.Time
}

// NewTeamEditor opens an editor on team; nil opens a blank form
func NewTeamEditor(team *models.Team) *TeamEditor {
	e := &TeamEditor{now: time.Now}
	e.reset(team)
	return e
}

func (e *TeamEditor) reset(team *models.Team) {
	e.logo = nil
	if team == nil {
		e.id = uuid.Nil
		e.staged = models.Team{}
		return
	}
	e.id = team.ID
	e.staged = *team
}

// Bind re-opens the editor when team is a different record
func (e *TeamEditor) Bind(team *models.Team) {
	id := uuid.Nil
	if team != nil {
		id = team.ID
	}
	if id != e.id {
		e.reset(team)
	}
}

// ID returns the record being edited; uuid.Nil for a new team
func (e *TeamEditor) ID() uuid.UUID { return e.id }

// IsNew reports whether the editor creates a new team
func (e *TeamEditor) IsNew() bool { return e.id == uuid.Nil }

// Staged returns a copy of the staged team
func (e *TeamEditor) Staged() models.Team { return e.staged }

// Logo returns the chosen logo file, if any
func (e *TeamEditor) Logo() *Upload { return e.logo }

// SetLogo chooses the logo file uploaded on save; nil clears it
func (e *TeamEditor) SetLogo(file *Upload) { e.logo = file }

// Set parses value and stores it in field
func (e *TeamEditor) Set(field, value string) error {
	next := e.staged
	switch field {
	case "name":
		next.Name = value
	case "stadium":
		next.Stadium = value
	case "logo_url":
		next.LogoURL = strings.TrimSpace(value)
	case "founded":
		v := strings.TrimSpace(value)
		if v == "" {
			next.Founded = 0
			break
		}
		year, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError(field, "must be a year")
		}
		next.Founded = year
	default:
		return apperrors.NewValidationError(field, "unknown field")
	}
	e.staged = next
	return nil
}

// Save uploads the chosen logo, if any, and hands the staged team to onSave
func (e *TeamEditor) Save(ctx context.Context, uploader Uploader, onSave func(context.Context, models.Team) error) error {
	team := e.staged
	team.ID = e.id
	var uploaded string
	if e.logo != nil {
		path, url, err := upload(ctx, uploader, TeamLogoPrefix, e.logo, e.now())
		if err != nil {
			return err
		}
		uploaded = path
		team.LogoURL = url
	}
	if err := onSave(ctx, team); err != nil {
		discard(ctx, uploader, uploaded)
		return err
	}
	return nil
}

// Cancel discards staged edits
func (e *TeamEditor) Cancel() {
	e.logo = nil
}

func parseDate(field, value string) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func parseNumber(field, value string) (float64, error) {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, apperrors.NewValidationError(field, "must be a number")
	}
	return n, nil
}

func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "must be a team id")
	}
	return &id, nil
}

func parseBool(field, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "off":
		return false, nil
	case "on":
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, apperrors.NewValidationError(field, "must be true or false")
	}
	return b, nil
}
