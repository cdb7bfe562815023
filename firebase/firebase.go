package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"tasks-api/utilities"
)

// NewFirestoreClient inicializa o app Firebase e devolve o cliente do Firestore.
// Sem credentialsPath o SDK usa as Application Default Credentials.
func NewFirestoreClient(ctx context.Context, credentialsPath, projectID string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		utilities.LogInfo("Inicializando Firebase com o arquivo de credenciais: %s", credentialsPath)
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	} else {
		utilities.LogInfo("FIREBASE_CREDENTIALS_PATH não definida, usando Application Default Credentials")
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return client, nil
}
