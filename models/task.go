package models

// Task é o registro de tarefa exposto pela API.
// O ID é atribuído pelo armazenamento e sempre chega aqui como string.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateTaskInput é o corpo aceito em POST /tasks.
// Ponteiros distinguem campo ausente de string vazia.
type CreateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
