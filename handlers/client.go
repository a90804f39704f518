package handlers

import (
	"net/http"

	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

// GetClientsHandler lists the user's clients
func GetClientsHandler(c echo.Context) error {
	clients, err := services.GetClients(requestDB(c), currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClientHandler returns one client
func GetClientHandler(c echo.Context) error {
	client, err := services.GetClientByID(requestDB(c), currentUserID(c), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClientHandler adds a client
func CreateClientHandler(c echo.Context) error {
	var input services.ClientInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	client, err := services.CreateClient(requestDB(c), currentUserID(c), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Client created successfully",
		"client":  client,
	})
}

// UpdateClientHandler applies the fields present in the body
func UpdateClientHandler(c echo.Context) error {
	var input services.ClientInput
	if err := c.Bind(&input); err != nil {
		return badRequest()
	}

	client, err := services.UpdateClient(requestDB(c), currentUserID(c), c.Param("id"), input)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Client updated successfully",
		"client":  client,
	})
}

// DeleteClientHandler removes a client; its cases are kept and unlinked
func DeleteClientHandler(c echo.Context) error {
	if err := services.DeleteClient(requestDB(c), currentUserID(c), c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Client deleted successfully"})
}
