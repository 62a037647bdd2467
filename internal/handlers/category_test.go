package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdourados/foodcourt/internal/models"
)

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"name": "Burgers", "description": "Grilled"}
	rec, c := env.doJSONRequest(http.MethodPost, "/categories", payload)

	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Category models.Category `json:"category"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, "Burgers", resp.Category.Name)
	require.NotZero(t, resp.Category.ID)
}

func TestGetCategoriesSortedByName(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(t, env, "Pizzas")
	seedCategory(t, env, "Burgers")
	seedCategory(t, env, "Drinks")

	rec, c := env.doJSONRequest(http.MethodGet, "/categories", nil)
	require.NoError(t, env.Categories.GetCategories(c))

	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Categories, 3)
	require.Equal(t, "Burgers", resp.Categories[0].Name)
	require.Equal(t, "Drinks", resp.Categories[1].Name)
	require.Equal(t, "Pizzas", resp.Categories[2].Name)
}

func TestUpdateCategory(t *testing.T) {
	env := newTestEnv(t)
	category := seedCategory(t, env, "Burgers")

	payload := map[string]string{"name": "Smash Burgers", "description": "On the grill"}
	rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/categories/%d", category.ID), payload)
	withID(c, category.ID)

	require.NoError(t, env.Categories.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Category
	require.NoError(t, env.DB.First(&updated, category.ID).Error)
	require.Equal(t, "Smash Burgers", updated.Name)
}

func TestDeleteCategoryWithItemsRefused(t *testing.T) {
	env := newTestEnv(t)
	category := seedCategory(t, env, "Burgers")
	seedItem(t, env, category.ID, "Cheeseburger", 10, true)

	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil)
	withID(c, category.ID)

	require.NoError(t, env.Categories.DeleteCategory(c))
	messages := validationMessages(t, rec)
	require.Contains(t, messages, "category still has items")

	var count int64
	require.NoError(t, env.DB.Model(&models.Category{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestDeleteEmptyCategory(t *testing.T) {
	env := newTestEnv(t)
	category := seedCategory(t, env, "Burgers")

	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil)
	withID(c, category.ID)

	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Category{}).Count(&count).Error)
	require.Zero(t, count)
}
