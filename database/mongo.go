package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tasks-api/models"
	"tasks-api/utilities"
)

const mongoConnectTimeout = 10 * time.Second

// MongoStore guarda as tarefas em uma coleção do MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoTask lê o _id como valor genérico: documentos inseridos por outros
// serviços podem não usar ObjectID.
type mongoTask struct {
	ID          interface{} `bson:"_id"`
	Title       string      `bson:"title"`
	Description string      `bson:"description"`
}

// ConnectMongo abre o cliente, confirma a conexão com um ping e seleciona a coleção.
func ConnectMongo(ctx context.Context, uri, dbName, collection string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable("conectar ao MongoDB", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable("ping no MongoDB", err)
	}

	utilities.LogInfo("Conectado ao MongoDB com sucesso (banco %s, coleção %s)", dbName, collection)
	return NewMongoStore(client, dbName, collection), nil
}

// NewMongoStore usa um cliente já conectado.
func NewMongoStore(client *mongo.Client, dbName, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection(collection),
	}
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Task, error) {
	return s.find(ctx, bson.D{}, "listar tarefas")
}

// Search faz $regex sem diferenciar maiúsculas em title ou description.
// q é escapado, então casa como texto literal.
func (s *MongoStore) Search(ctx context.Context, q string) ([]models.Task, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "title", Value: pattern}},
		bson.D{{Key: "description", Value: pattern}},
	}}}
	return s.find(ctx, filter, "buscar tarefas")
}

func (s *MongoStore) find(ctx context.Context, filter interface{}, op string) ([]models.Task, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	for cursor.Next(ctx) {
		task, err := taskFromMongo(cursor.Current)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return tasks, nil
}

// taskFromMongo decodifica um documento da coleção. Um documento fora do
// formato esperado é problema de dados, não de conexão: o erro não leva
// ErrStoreUnavailable.
func taskFromMongo(raw bson.Raw) (models.Task, error) {
	var doc mongoTask
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.Task{}, fmt.Errorf("documento de tarefa inválido: %w", err)
	}
	return models.Task{
		ID:          mongoIDString(doc.ID),
		Title:       doc.Title,
		Description: doc.Description,
	}, nil
}

func (s *MongoStore) Insert(ctx context.Context, title, description string) (models.Task, error) {
	res, err := s.coll.InsertOne(ctx, taskDocument{Title: title, Description: description})
	if err != nil {
		return models.Task{}, unavailable("inserir tarefa", err)
	}
	return models.Task{
		ID:          mongoIDString(res.InsertedID),
		Title:       title,
		Description: description,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoIDString converte o _id nativo para a forma textual exposta pela API.
func mongoIDString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
