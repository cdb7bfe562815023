package database

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"tasks-api/models"
)

// FirestoreStore guarda as tarefas em uma coleção de nível raiz do Firestore.
// O ID da tarefa é o ID automático do documento.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) ListAll(ctx context.Context) ([]models.Task, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	tasks := []models.Task{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, unavailable("iterar tarefas no Firestore", err)
		}

		var data taskDocument
		if err := doc.DataTo(&data); err != nil {
			return nil, unavailable("decodificar tarefa "+doc.Ref.ID, err)
		}
		tasks = append(tasks, models.Task{
			ID:          doc.Ref.ID,
			Title:       data.Title,
			Description: data.Description,
		})
	}
	return tasks, nil
}

// Search filtra no cliente: o Firestore não tem busca por substring.
func (s *FirestoreStore) Search(ctx context.Context, q string) ([]models.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Task{}
	for _, task := range tasks {
		if matchesQuery(task, q) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, title, description string) (models.Task, error) {
	ref, _, err := s.client.Collection(s.collection).Add(ctx, taskDocument{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return models.Task{}, unavailable("inserir tarefa no Firestore", err)
	}
	return models.Task{ID: ref.ID, Title: title, Description: description}, nil
}

func (s *FirestoreStore) Close(context.Context) error {
	return s.client.Close()
}
