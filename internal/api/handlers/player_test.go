package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talentbase-backend/internal/api/handlers"
	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/mocks"
	"talentbase-backend/internal/service"
	"talentbase-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// countingReloader records how often the shared roster was reloaded
type countingReloader struct {
	calls int
	err   error
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls++
	return r.err
}

// PlayerHandlerTestSuite defines the test suite for PlayerHandler
type PlayerHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockPlayerServiceInterface
	mockStorage *mocks.MockStorageServiceInterface
	reloader    *countingReloader
	handler     *handlers.PlayerHandler
	httpSuite   *testutils.HTTPTestSuite
	factories   *testutils.FactorySet
}

// SetupTest sets up the test suite
func (suite *PlayerHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockService = mocks.NewMockPlayerServiceInterface(suite.ctrl)
	suite.mockStorage = mocks.NewMockStorageServiceInterface(suite.ctrl)
	suite.reloader = &countingReloader{}
	suite.factories = testutils.NewFactorySet()

	suite.handler = handlers.NewPlayerHandler(suite.mockService, suite.mockStorage, suite.reloader, 1<<20)

	suite.httpSuite = testutils.SetupHTTPTest()
	players := suite.httpSuite.Router.Group("/api/v1/players")
	{
		players.GET("", suite.handler.ListPlayers)
		players.POST("", suite.handler.CreatePlayer)
		players.GET("/:id", suite.handler.GetPlayer)
		players.PUT("/:id", suite.handler.UpdatePlayer)
		players.DELETE("/:id", suite.handler.DeletePlayer)
		players.POST("/:id/photo", suite.handler.UploadPhoto)
	}
}

// TearDownTest cleans up after each test
func (suite *PlayerHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *PlayerHandlerTestSuite) roster() []models.Player {
	ada := suite.factories.Player.TopTalent("Ada", "Obi", "Nigeria")
	kofi := suite.factories.Player.WithName("Kofi", "Mensah")
	kofi.Nationality = "Ghana"
	tunde := suite.factories.Player.TopTalent("Tunde", "Bakare", "Nigeria")
	return []models.Player{*ada, *kofi, *tunde}
}

// TestListPlayers tests the ListPlayers handler
func (suite *PlayerHandlerTestSuite) TestListPlayers() {
	suite.T().Run("All players", func(t *testing.T) {
		suite.mockService.EXPECT().List(gomock.Any()).Return(suite.roster(), nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players", nil)

		var response handlers.PlayerListResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, 3, response.Count)
		assert.Equal(t, 3, response.Total)
	})

	suite.T().Run("Filtered by nationality", func(t *testing.T) {
		suite.mockService.EXPECT().List(gomock.Any()).Return(suite.roster(), nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players?q=GHA", nil)

		var response handlers.PlayerListResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, 1, response.Count)
		assert.Equal(t, 3, response.Total)
		assert.Equal(t, "Kofi Mensah", response.Players[0].Name)
	})

	suite.T().Run("Top talents only", func(t *testing.T) {
		suite.mockService.EXPECT().List(gomock.Any()).Return(suite.roster(), nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players?top=true", nil)

		var response handlers.PlayerListResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, 2, response.Count)
	})

	suite.T().Run("Persistence failure", func(t *testing.T) {
		suite.mockService.EXPECT().List(gomock.Any()).
			Return(nil, apperrors.NewPersistenceError("list players", "could not load players", errors.New("timeout")))

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players", nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadGateway, "could not load players")
	})
}

// TestGetPlayer tests the GetPlayer handler
func (suite *PlayerHandlerTestSuite) TestGetPlayer() {
	suite.T().Run("Success", func(t *testing.T) {
		player := suite.factories.Player.Create()
		suite.mockService.EXPECT().GetByID(gomock.Any(), player.ID).Return(player, nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players/"+player.ID.String(), nil)

		var response models.Player
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, player.ID, response.ID)
		assert.Equal(t, "Ada Obi", response.Name)
	})

	suite.T().Run("Invalid ID", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players/not-a-uuid", nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "invalid player ID")
	})

	suite.T().Run("Not found", func(t *testing.T) {
		id := uuid.New()
		suite.mockService.EXPECT().GetByID(gomock.Any(), id).Return(nil, apperrors.ErrPlayerNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/players/"+id.String(), nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusNotFound, "player not found")
	})
}

// TestCreatePlayer tests the CreatePlayer handler
func (suite *PlayerHandlerTestSuite) TestCreatePlayer() {
	suite.T().Run("Success", func(t *testing.T) {
		before := suite.reloader.calls
		req := service.PlayerRequest{
			FirstName:   "Ada",
			LastName:    "Obi",
			DateOfBirth: "2004-03-14",
			Nationality: "Nigeria",
			Position:    "ST",
			MarketValue: 25000000,
		}
		created := suite.factories.Player.Create()

		suite.mockService.EXPECT().Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p models.Player) (*models.Player, error) {
				assert.Equal(t, uuid.Nil, p.ID)
				assert.Equal(t, models.PositionStriker, p.Position)
				if assert.NotNil(t, p.DateOfBirth) {
					assert.Equal(t, 2004, p.DateOfBirth.Year())
				}
				return created, nil
			})

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/v1/players", req)

		var response models.Player
		testutils.AssertJSONResponse(t, recorder, http.StatusCreated, &response)
		assert.Equal(t, created.ID, response.ID)
		assert.Equal(t, before+1, suite.reloader.calls)
	})

	suite.T().Run("Invalid JSON", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/players", bytes.NewBufferString("invalid json"))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		suite.httpSuite.Router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	suite.T().Run("Invalid date", func(t *testing.T) {
		req := service.PlayerRequest{FirstName: "Ada", DateOfBirth: "14/03/2004"}

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/v1/players", req)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "date_of_birth")
	})

	suite.T().Run("Validation error from service", func(t *testing.T) {
		suite.mockService.EXPECT().Upsert(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewValidationError("name", "is required"))

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/v1/players", service.PlayerRequest{})

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "name")
	})
}

// TestUpdatePlayer tests the UpdatePlayer handler
func (suite *PlayerHandlerTestSuite) TestUpdatePlayer() {
	suite.T().Run("Success keeps path ID", func(t *testing.T) {
		existing := suite.factories.Player.Create()
		suite.mockService.EXPECT().Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p models.Player) (*models.Player, error) {
				assert.Equal(t, existing.ID, p.ID)
				existing.Agent = p.Agent
				return existing, nil
			})

		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/api/v1/players/"+existing.ID.String(),
			service.PlayerRequest{FirstName: "Ada", LastName: "Obi", Position: "ST", Agent: "Stellar"})

		var response models.Player
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "Stellar", response.Agent)
	})

	suite.T().Run("Unknown player", func(t *testing.T) {
		id := uuid.New()
		suite.mockService.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrPlayerNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/api/v1/players/"+id.String(), service.PlayerRequest{FirstName: "Ada"})

		testutils.AssertErrorResponse(t, recorder, http.StatusNotFound, "player not found")
	})

	suite.T().Run("Invalid ID", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodPut, "/api/v1/players/123", service.PlayerRequest{})

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "invalid player ID")
	})
}

// TestDeletePlayer tests the DeletePlayer handler
func (suite *PlayerHandlerTestSuite) TestDeletePlayer() {
	suite.T().Run("Success", func(t *testing.T) {
		id := uuid.New()
		before := suite.reloader.calls
		suite.mockService.EXPECT().Delete(gomock.Any(), id).Return(nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodDelete, "/api/v1/players/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, before+1, suite.reloader.calls)
	})

	suite.T().Run("Reload failure does not fail the request", func(t *testing.T) {
		id := uuid.New()
		suite.reloader.err = errors.New("db gone")
		defer func() { suite.reloader.err = nil }()
		suite.mockService.EXPECT().Delete(gomock.Any(), id).Return(nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodDelete, "/api/v1/players/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	suite.T().Run("Not found", func(t *testing.T) {
		id := uuid.New()
		before := suite.reloader.calls
		suite.mockService.EXPECT().Delete(gomock.Any(), id).Return(apperrors.ErrPlayerNotFound)

		recorder := suite.httpSuite.MakeRequest(http.MethodDelete, "/api/v1/players/"+id.String(), nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusNotFound, "player not found")
		assert.Equal(t, before, suite.reloader.calls)
	})
}

// TestUploadPhoto tests the UploadPhoto handler
func (suite *PlayerHandlerTestSuite) TestUploadPhoto() {
	suite.T().Run("Success", func(t *testing.T) {
		player := suite.factories.Player.Create()
		updated := *player
		updated.PhotoURL = "https://cdn.nnl.test/player-photos/1_ada.png"

		suite.mockService.EXPECT().GetByID(gomock.Any(), player.ID).Return(player, nil)
		suite.mockStorage.EXPECT().Upload(gomock.Any(), gomock.Any(), []byte("png-bytes"), gomock.Any()).
			DoAndReturn(func(_ context.Context, path string, _ []byte, _ string) (string, error) {
				assert.True(t, strings.HasPrefix(path, "player-photos/"))
				assert.True(t, strings.HasSuffix(path, "_ada.png"))
				return updated.PhotoURL, nil
			})
		suite.mockService.EXPECT().SetPhotoURL(gomock.Any(), player.ID, updated.PhotoURL).Return(&updated, nil)

		recorder := suite.httpSuite.MakeMultipartRequest("/api/v1/players/"+player.ID.String()+"/photo",
			nil, "photo", "ada.png", []byte("png-bytes"), nil)

		var response models.Player
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, updated.PhotoURL, response.PhotoURL)
	})

	suite.T().Run("Missing file", func(t *testing.T) {
		player := suite.factories.Player.Create()
		suite.mockService.EXPECT().GetByID(gomock.Any(), player.ID).Return(player, nil)

		recorder := suite.httpSuite.MakeMultipartRequest("/api/v1/players/"+player.ID.String()+"/photo",
			nil, "", "", nil, nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "photo file is required")
	})

	suite.T().Run("Oversized file", func(t *testing.T) {
		player := suite.factories.Player.Create()
		suite.mockService.EXPECT().GetByID(gomock.Any(), player.ID).Return(player, nil)

		recorder := suite.httpSuite.MakeMultipartRequest("/api/v1/players/"+player.ID.String()+"/photo",
			nil, "photo", "big.png", bytes.Repeat([]byte("x"), 2<<20), nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "larger than 1 MB")
	})

	suite.T().Run("Upload failure leaves player untouched", func(t *testing.T) {
		player := suite.factories.Player.Create()
		suite.mockService.EXPECT().GetByID(gomock.Any(), player.ID).Return(player, nil)
		suite.mockStorage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", apperrors.NewUploadError("player-photos/x.png", errors.New("bucket missing")))

		recorder := suite.httpSuite.MakeMultipartRequest("/api/v1/players/"+player.ID.String()+"/photo",
			nil, "photo", "x.png", []byte("data"), nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadGateway, "photo upload failed")
	})

	suite.T().Run("Unknown player", func(t *testing.T) {
		id := uuid.New()
		suite.mockService.EXPECT().GetByID(gomock.Any(), id).Return(nil, apperrors.ErrPlayerNotFound)

		recorder := suite.httpSuite.MakeMultipartRequest("/api/v1/players/"+id.String()+"/photo",
			nil, "photo", "x.png", []byte("data"), nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusNotFound, "player not found")
	})

	suite.T().Run("Failed save removes the upload", func(t *testing.T) {
		player := suite.factories.Player.Create()
		var stored string
		suite.mockService.EXPECT().GetByID(gomock.Any(), player.ID).Return(player, nil)
		suite.mockStorage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, path string, _ []byte, _ string) (string, error) {
				stored = path
				return "/blobs/" + path, nil
			})
		suite.mockService.EXPECT().SetPhotoURL(gomock.Any(), player.ID, gomock.Any()).
			Return(nil, apperrors.NewPersistenceError("update player", "could not save player Ada Obi", errors.New("connection reset")))
		suite.mockStorage.EXPECT().Remove(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, path string) error {
				assert.Equal(t, stored, path)
				return nil
			})

		recorder := suite.httpSuite.MakeMultipartRequest("/api/v1/players/"+player.ID.String()+"/photo",
			nil, "photo", "ada.png", []byte("png-bytes"), nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadGateway, "could not save player")
	})
}

// TestPlayerHandlerTestSuite runs the test suite
func TestPlayerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PlayerHandlerTestSuite))
}
