package checkemailuniqueness

type Input struct {
	Email string `json:"email"`
}

type Output struct {
	NormalizedEmail string `json:"normalizedEmail"`
	EmailStatus     string `json:"emailStatus"`
}
