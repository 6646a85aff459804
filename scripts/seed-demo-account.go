package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

type Account struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
}

type RegisterResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Age   int    `json:"age"`
}

func registerUser(email, password string) (*Account, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(apiBase+"/auth/register", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &Account{
		Email:    result.User.Email,
		Password: password,
		Token:    result.AccessToken,
		UserID:   result.User.ID,
	}, nil
}

func createContact(token string, contact Contact) (*Contact, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"name":  contact.Name,
		"email": contact.Email,
		"phone": contact.Phone,
		"age":   contact.Age,
	})

	req, _ := http.NewRequest("POST", apiBase+"/contacts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create contact failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result Contact
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &result, nil
}

func generateEmail() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("demo_%d_%s@example.com", time.Now().Unix(), string(random))
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("Seeding demo account...")

	password := "testpassword123"
	account, err := registerUser(generateEmail(), password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register demo user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ User: %s\n", account.Email)

	seeds := []Contact{
		{Name: "Ana Souza", Email: "ana.souza@example.com", Phone: "11987654321", Age: 29},
		{Name: "Bruno Lima", Email: "bruno.lima@example.com", Phone: "21912345678", Age: 34},
		{Name: "Carla Mendes", Email: "carla.mendes@example.com", Phone: "3133334444", Age: 41},
		{Name: "Diego Ferreira", Email: "diego.ferreira@example.com", Phone: "47999887766", Age: 25},
		{Name: "Elisa Rocha", Email: "elisa.rocha@example.com", Phone: "8533221100", Age: 52},
	}

	fmt.Println("\nCreating contacts...")
	var created []*Contact
	for _, seed := range seeds {
		contact, err := createContact(account.Token, seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create contact %s: %v\n", seed.Name, err)
			os.Exit(1)
		}
		created = append(created, contact)
		fmt.Printf("  ✓ %s\n", contact.Name)
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("DEMO ACCOUNT READY")
	fmt.Println("============================================================")
	fmt.Printf("\nLogin: %s / %s\n", account.Email, account.Password)
	fmt.Printf("Contacts: %d\n", len(created))

	// Output JSON for programmatic use
	output := map[string]interface{}{
		"account":  account,
		"contacts": created,
	}

	fmt.Println("\nJSON OUTPUT (for scripts):")
	jsonOutput, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonOutput))
}
