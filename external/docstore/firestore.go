package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/firestore"
	"github.com/foxseedlab/ahirun/internal/docstore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type FirestoreStore struct {
	client *firestore.Client
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsJSON string
}

func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (docstore.Store, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*docstore.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("user %s: %w", userID, docstore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	var u docstore.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user %s (raw: %v): %w", userID, snap.Data(), err)
	}
	u.ID = snap.Ref.ID
	return &u, nil
}

func (s *FirestoreStore) UpdateUserDaily(ctx context.Context, userID string, lastActive time.Time, hintID string) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "last_active", Value: lastActive},
		{Path: "hint_for_today", Value: hintID},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("user %s: %w", userID, docstore.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update daily state for user %s: %w", userID, err)
	}
	return nil
}

func (s *FirestoreStore) SetHint(ctx context.Context, userID, hintID, text string) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "hints." + hintID, Value: text},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("user %s: %w", userID, docstore.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("set hint %s for user %s: %w", hintID, userID, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteHint(ctx context.Context, userID, hintID string) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "hints." + hintID, Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("user %s: %w", userID, docstore.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete hint %s for user %s: %w", hintID, userID, err)
	}
	return nil
}

func (s *FirestoreStore) AddLog(ctx context.Context, userID string, r docstore.Remark) (string, error) {
	return s.addRemark(ctx, userID, "logs", r)
}

func (s *FirestoreStore) AddRecord(ctx context.Context, userID string, r docstore.Remark) (string, error) {
	return s.addRemark(ctx, userID, "records", r)
}

func (s *FirestoreStore) addRemark(ctx context.Context, userID, collection string, r docstore.Remark) (string, error) {
	ref, _, err := s.client.Collection(usersCollection).Doc(userID).Collection(collection).Add(ctx, r)
	if err != nil {
		return "", fmt.Errorf("add %s entry for user %s: %w", collection, userID, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) UpdateDocument(ctx context.Context, path string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := s.client.Doc(path).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("document %s: %w", path, docstore.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update document %s: %w", path, err)
	}
	return nil
}
