package geoscore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	apperrors "github.com/yanqian/geoscore/pkg/errors"
)

// JobArchiveSnapshot is the queue job that archives a run's nearby places.
const JobArchiveSnapshot = "snapshot.archive"

// ObjectStorage writes archived snapshots. Objects are write-once: a run id
// is never reused, so a key is never overwritten.
type ObjectStorage interface {
	Put(ctx context.Context, obj Object) (StoredObject, error)
}

// Object is one blob to archive plus the metadata stored alongside it.
type Object struct {
	Key         string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// Snapshot metadata keys.
const (
	MetaLocationKey = "location-key"
	MetaRunID       = "run-id"
	MetaScore       = "score"
)

// Snapshot is the archived payload of one scoring run.
type Snapshot struct {
	Key          string        `json:"key"`
	RunID        string        `json:"runId"`
	Location     string        `json:"location"`
	Coordinates  Coordinate    `json:"coordinates"`
	Score        int           `json:"score"`
	NearbyPlaces []PointRecord `json:"nearbyPlaces"`
}

// SnapshotArchiver copies the raw nearby places of stored runs into object
// storage for audit and history.
type SnapshotArchiver struct {
	store   Store
	storage ObjectStorage
	prefix  string
	logger  *slog.Logger
}

// NewSnapshotArchiver constructs the archiver.
func NewSnapshotArchiver(store Store, storage ObjectStorage, prefix string, logger *slog.Logger) *SnapshotArchiver {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "snapshots"
	}
	return &SnapshotArchiver{
		store:   store,
		storage: storage,
		prefix:  prefix,
		logger:  logger.With("component", "geoscore.archiver"),
	}
}

// Handle is the queue handler for JobArchiveSnapshot.
func (a *SnapshotArchiver) Handle(ctx context.Context, name string, payload map[string]any) {
	if name != JobArchiveSnapshot {
		a.logger.Warn("unknown job ignored", "job", name)
		return
	}
	key, _ := payload["key"].(string)
	runID, _ := payload["runId"].(string)
	if err := a.Archive(ctx, key, runID); err != nil {
		a.logger.Error("snapshot archive failed", "key", key, "run_id", runID, "error", err)
	}
}

// Archive writes the snapshot of the record currently stored under key.
// A record replaced by a newer run is skipped.
func (a *SnapshotArchiver) Archive(ctx context.Context, key, runID string) error {
	if key == "" || runID == "" {
		return apperrors.Wrap(apperrors.CodeArchive, "snapshot job missing key or run id", nil)
	}
	record, ok, err := a.store.Load(ctx, key)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeArchive, "load record", err)
	}
	if !ok {
		return apperrors.Wrap(apperrors.CodeArchive, fmt.Sprintf("record %q not found", key), nil)
	}
	if record.RunID != runID {
		a.logger.Info("snapshot superseded by newer run", "key", key, "run_id", runID, "current_run_id", record.RunID)
		return nil
	}
	data, err := json.Marshal(Snapshot{
		Key:          key,
		RunID:        record.RunID,
		Location:     record.Location,
		Coordinates:  record.Coordinates,
		Score:        record.Score,
		NearbyPlaces: record.NearbyPlaces,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeArchive, "encode snapshot", err)
	}
	obj, err := a.storage.Put(ctx, Object{
		Key:         a.ObjectKey(key, runID),
		Data:        data,
		ContentType: "application/json",
		Metadata: map[string]string{
			MetaLocationKey: key,
			MetaRunID:       record.RunID,
			MetaScore:       strconv.Itoa(record.Score),
		},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeArchive, "put snapshot", err)
	}
	a.logger.Info("snapshot archived", "key", key, "object", obj.Key, "size", obj.Size, "etag", obj.ETag)
	return nil
}

// ObjectKey is the storage path of a run's snapshot.
func (a *SnapshotArchiver) ObjectKey(key, runID string) string {
	return path.Join(a.prefix, key, runID+".json")
}
