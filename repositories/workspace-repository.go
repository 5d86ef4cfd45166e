package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The whole client tree lives in one document under a fixed key. Saves are
// full-document replaces: last write wins, the version stamp is recorded
// but never compared.
const workspaceDocID = "workspace"

type WorkspaceRepo struct {
	collection *mongo.Collection
}

func NewWorkspaceRepo(collection *mongo.Collection) *WorkspaceRepo {
	return &WorkspaceRepo{collection: collection}
}

// Load fetches the workspace document. Returns nil when the document does
// not exist yet.
func (r *WorkspaceRepo) Load(ctx context.Context) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.collection.FindOne(ctx, bson.M{"_id": workspaceDocID}).Decode(&ws)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %v", err)
	}
	return &ws, nil
}

// Save replaces the whole document, stamping lastModified, modifiedBy and
// the next version number.
func (r *WorkspaceRepo) Save(ctx context.Context, clients []models.Client, modifiedBy string) error {
	var version int64 = 1
	current, err := r.Load(ctx)
	if err == nil && current != nil {
		version = current.Version + 1
	}

	ws := models.Workspace{
		ID:           workspaceDocID,
		Clients:      clients,
		LastModified: time.Now(),
		ModifiedBy:   modifiedBy,
		Version:      version,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": workspaceDocID}, ws, opts); err != nil {
		return fmt.Errorf("failed to save workspace: %v", err)
	}
	return nil
}

// Subscribe watches the workspace document through a change stream and
// invokes onChange with the full client list on every write, including this
// process's own saves. The stream stops when ctx is cancelled.
func (r *WorkspaceRepo) Subscribe(ctx context.Context, onChange func([]models.Client)) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"documentKey._id": workspaceDocID}}},
	}
	streamOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(ctx, pipeline, streamOpts)
	if err != nil {
		return fmt.Errorf("failed to open change stream: %v", err)
	}

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var event struct {
				OperationType string           `bson:"operationType"`
				FullDocument  models.Workspace `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				logging.Logger.Errorf("Event ID: CHANGE_STREAM_DECODE_FAILED, Description: Failed to decode change event: %v", err)
				continue
			}
			if event.OperationType == "delete" {
				onChange(nil)
				continue
			}
			onChange(event.FullDocument.Clients)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logging.Logger.Errorf("Event ID: CHANGE_STREAM_CLOSED, Description: Change stream ended with error: %v", err)
		}
	}()

	return nil
}
