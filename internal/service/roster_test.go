package service_test

import (
	"context"
	"testing"

	"talentbase-backend/internal/database/models"
	"talentbase-backend/internal/mocks"
	"talentbase-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRosterServiceDelegates(t *testing.T) {
	ctrl := gomock.NewController(t)
	players := mocks.NewMockPlayerServiceInterface(ctrl)
	teams := mocks.NewMockTeamServiceInterface(ctrl)
	roster := service.NewRosterService(players, teams)
	ctx := context.Background()
	teamID := uuid.New()

	players.EXPECT().List(ctx).Return([]models.Player{{Name: "Ada Obi"}}, nil)
	teams.EXPECT().List(ctx).Return([]models.Team{{Name: "Enyimba FC"}}, nil)
	teams.EXPECT().Delete(ctx, teamID).Return(int64(2), nil)

	ps, err := roster.ListPlayers(ctx)
	assert.NoError(t, err)
	assert.Len(t, ps, 1)

	ts, err := roster.ListTeams(ctx)
	assert.NoError(t, err)
	assert.Len(t, ts, 1)

	assert.NoError(t, roster.DeleteTeam(ctx, teamID))
}
