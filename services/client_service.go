package services

import (
	"errors"
	"fmt"

	"advocate_diary/models"

	"gorm.io/gorm"
)

// ClientInput is the create/update payload for a client
type ClientInput struct {
	Name    models.Optional[string] `json:"name"`
	Email   models.Optional[string] `json:"email"`
	Phone   models.Optional[string] `json:"phone"`
	Address models.Optional[string] `json:"address"`
	Notes   models.Optional[string] `json:"notes"`
}

// GetClients returns the user's clients ordered by name
func GetClients(db *gorm.DB, userID string) ([]models.Client, error) {
	var clients []models.Client
	err := db.Where("user_id = ?", userID).Order("name ASC").Find(&clients).Error
	return clients, err
}

// GetClientByID retrieves a client owned by userID
func GetClientByID(db *gorm.DB, userID, clientID string) (*models.Client, error) {
	if !validID(clientID) {
		return nil, ErrClientNotFound
	}

	var client models.Client
	err := db.First(&client, "id = ? AND user_id = ?", clientID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// CreateClient adds a client to the user's address book
func CreateClient(db *gorm.DB, userID string, input ClientInput) (*models.Client, error) {
	name, err := requiredString(input.Name, "name", "Client name")
	if err != nil {
		return nil, err
	}

	client := &models.Client{UserID: userID, Name: name}
	applyString(&client.Email, input.Email)
	applyString(&client.Phone, input.Phone)
	applyString(&client.Address, input.Address)
	applyText(&client.Notes, input.Notes)

	if err := db.Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// UpdateClient applies the fields present in input
func UpdateClient(db *gorm.DB, userID, clientID string, input ClientInput) (*models.Client, error) {
	client, err := GetClientByID(db, userID, clientID)
	if err != nil {
		return nil, err
	}

	if input.Name.Set {
		name, err := requiredString(input.Name, "name", "Client name")
		if err != nil {
			return nil, err
		}
		client.Name = name
	}
	applyString(&client.Email, input.Email)
	applyString(&client.Phone, input.Phone)
	applyString(&client.Address, input.Address)
	applyText(&client.Notes, input.Notes)

	if err := db.Save(client).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// DeleteClient removes a client and detaches it from the user's cases.
// The client details copied onto those cases are kept.
func DeleteClient(db *gorm.DB, userID, clientID string) error {
	client, err := GetClientByID(db, userID, clientID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Case{}).
			Where("client_id = ? AND user_id = ?", client.ID, userID).
			Update("client_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach cases: %w", err)
		}
		if err := tx.Delete(client).Error; err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		return nil
	})
}
