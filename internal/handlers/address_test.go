package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdourados/foodcourt/internal/models"
)

func addressPayload() map[string]string {
	return map[string]string{
		"street":   "Avenida Paulista",
		"number":   "1000",
		"district": "Bela Vista",
		"city":     "Sao Paulo",
		"state":    "SP",
		"zipCode":  "01310-100",
	}
}

func TestCreateAndListAddresses(t *testing.T) {
	env := newTestEnv(t)
	maria := seedUser(t, env, "maria@example.com", models.UserClient)
	joao := seedUser(t, env, "joao@example.com", models.UserClient)
	seedAddress(t, env, joao.ID)

	rec, c := env.doJSONRequest(http.MethodPost, "/addresses", addressPayload())
	asUser(c, maria.ID, models.UserClient)
	require.NoError(t, env.Addresses.CreateAddress(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Address models.Address `json:"address"`
	}
	decodeBody(t, rec, &created)
	require.Equal(t, maria.ID, created.Address.UserID)

	// listing only shows the caller's rows
	recList, cList := env.doJSONRequest(http.MethodGet, "/addresses", nil)
	asUser(cList, maria.ID, models.UserClient)
	require.NoError(t, env.Addresses.GetAddresses(cList))

	var list struct {
		Addresses []models.Address `json:"addresses"`
	}
	decodeBody(t, recList, &list)
	require.Len(t, list.Addresses, 1)
	require.Equal(t, created.Address.ID, list.Addresses[0].ID)
}

func TestCreateAddressValidation(t *testing.T) {
	env := newTestEnv(t)
	maria := seedUser(t, env, "maria@example.com", models.UserClient)

	payload := addressPayload()
	payload["state"] = "SAO"
	payload["zipCode"] = "123"

	rec, c := env.doJSONRequest(http.MethodPost, "/addresses", payload)
	asUser(c, maria.ID, models.UserClient)

	require.NoError(t, env.Addresses.CreateAddress(c))
	messages := validationMessages(t, rec)
	require.Contains(t, messages, "state must have exactly 2 characters")
	require.Contains(t, messages, "zipCode must have at least 8 characters")
}

func TestUpdateAddress(t *testing.T) {
	env := newTestEnv(t)
	maria := seedUser(t, env, "maria@example.com", models.UserClient)
	address := seedAddress(t, env, maria.ID)

	payload := addressPayload()
	payload["street"] = "Rua Augusta"

	rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/addresses/%d", address.ID), payload)
	asUser(c, maria.ID, models.UserClient)
	withID(c, address.ID)

	require.NoError(t, env.Addresses.UpdateAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Address
	require.NoError(t, env.DB.First(&updated, address.ID).Error)
	require.Equal(t, "Rua Augusta", updated.Street)
}

func TestAddressOfAnotherUserIsHidden(t *testing.T) {
	env := newTestEnv(t)
	maria := seedUser(t, env, "maria@example.com", models.UserClient)
	joao := seedUser(t, env, "joao@example.com", models.UserClient)
	theirs := seedAddress(t, env, joao.ID)

	// not 403: the row's existence is not revealed
	_, cUpd := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/addresses/%d", theirs.ID), addressPayload())
	asUser(cUpd, maria.ID, models.UserClient)
	withID(cUpd, theirs.ID)
	requireHTTPError(t, env.Addresses.UpdateAddress(cUpd), http.StatusNotFound)

	_, cDel := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/addresses/%d", theirs.ID), nil)
	asUser(cDel, maria.ID, models.UserClient)
	withID(cDel, theirs.ID)
	requireHTTPError(t, env.Addresses.DeleteAddress(cDel), http.StatusNotFound)
}

func TestAdminCanEditAnyAddress(t *testing.T) {
	env := newTestEnv(t)
	maria := seedUser(t, env, "maria@example.com", models.UserClient)
	admin := seedUser(t, env, "admin@example.com", models.UserAdmin)
	address := seedAddress(t, env, maria.ID)

	rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/addresses/%d", address.ID), addressPayload())
	asUser(c, admin.ID, models.UserAdmin)
	withID(c, address.ID)

	require.NoError(t, env.Addresses.UpdateAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteAddress(t *testing.T) {
	env := newTestEnv(t)
	maria := seedUser(t, env, "maria@example.com", models.UserClient)
	address := seedAddress(t, env, maria.ID)

	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/addresses/%d", address.ID), nil)
	asUser(c, maria.ID, models.UserClient)
	withID(c, address.ID)

	require.NoError(t, env.Addresses.DeleteAddress(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Address{}).Count(&count).Error)
	require.Zero(t, count)
}
