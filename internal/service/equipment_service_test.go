package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func setupEquipmentService(t *testing.T) (*EquipmentService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return NewEquipmentService(db, repository.NewEquipmentRepository(db)), db
}

func TestEquipmentService_Create(t *testing.T) {
	svc, db := setupEquipmentService(t)
	gym := testutil.TestGymOwner(t, db)
	today := testutil.Today()

	info, err := svc.Create(gym.ID, &dto.CreateEquipmentRequest{
		Name:                "Power Rack",
		EquipmentType:       "strength",
		PurchaseDate:        today.AddDate(0, -6, 0).Format("2006-01-02"),
		Price:               45000,
		WarrantyExpiry:      today.AddDate(1, 0, 0).Format("2006-01-02"),
		NextMaintenanceDate: today.Format("2006-01-02"),
	})
	require.NoError(t, err)

	assert.Equal(t, "EQP-0001", info.EquipmentID)
	assert.Equal(t, "good", info.Condition)
	assert.Equal(t, 1, info.Quantity)
	assert.True(t, info.IsWorking)
	assert.True(t, info.IsUnderWarranty)
	assert.True(t, info.IsMaintenanceDue)

	broken := false
	info, err = svc.Create(gym.ID, &dto.CreateEquipmentRequest{
		Name:          "Old Bike",
		EquipmentType: "cardio",
		PurchaseDate:  "2019-01-01",
		IsWorking:     &broken,
		Condition:     "out_of_order",
		Quantity:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, "EQP-0002", info.EquipmentID)

	var stored model.Equipment
	require.NoError(t, db.First(&stored, info.ID).Error)
	assert.False(t, stored.IsWorking)
	assert.False(t, info.IsUnderWarranty)

	_, err = svc.Create(gym.ID, &dto.CreateEquipmentRequest{Name: "Bad", EquipmentType: "cardio", PurchaseDate: "not-a-date"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEquipmentService_Queries(t *testing.T) {
	svc, db := setupEquipmentService(t)
	gym := testutil.TestGymOwner(t, db)
	other := testutil.TestGymOwner(t, db)
	today := testutil.Today()
	due := today.AddDate(0, 0, -1)
	later := today.AddDate(0, 1, 0)

	testutil.TestEquipment(t, db, gym.ID, func(e *model.Equipment) { e.Quantity = 4; e.NextMaintenanceDate = &due })
	testutil.TestEquipment(t, db, gym.ID, func(e *model.Equipment) { e.NextMaintenanceDate = &later })
	testutil.TestEquipment(t, db, gym.ID, func(e *model.Equipment) {
		e.Name = "Dumbbell Set"
		e.EquipmentType = "free_weights"
		e.IsWorking = false
	})
	testutil.TestEquipment(t, db, other.ID)

	working, total, err := svc.ListWorking(gym.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, working, 2)

	found, total, err := svc.List(gym.ID, &dto.EquipmentListRequest{Search: "Dumbbell"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "free_weights", found[0].EquipmentType)

	summary, err := svc.ByType(gym.ID)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, dto.EquipmentTypeSummary{EquipmentType: "cardio", Count: 2, Quantity: 5}, *summary[0])
	assert.Equal(t, dto.EquipmentTypeSummary{EquipmentType: "free_weights", Count: 1, Quantity: 1}, *summary[1])

	dueItems, err := svc.MaintenanceDue(gym.ID)
	require.NoError(t, err)
	require.Len(t, dueItems, 1)
	assert.True(t, dueItems[0].IsMaintenanceDue)
}

func TestEquipmentService_UpdateAndDelete(t *testing.T) {
	svc, db := setupEquipmentService(t)
	gym := testutil.TestGymOwner(t, db)
	other := testutil.TestGymOwner(t, db)
	equipment := testutil.TestEquipment(t, db, gym.ID)

	condition, notWorking := "poor", false
	empty := ""
	info, err := svc.Update(gym.ID, equipment.ID, &dto.UpdateEquipmentRequest{
		Condition:      &condition,
		IsWorking:      &notWorking,
		WarrantyExpiry: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "poor", info.Condition)
	assert.Nil(t, info.WarrantyExpiry)

	var stored model.Equipment
	require.NoError(t, db.First(&stored, equipment.ID).Error)
	assert.False(t, stored.IsWorking)

	assert.ErrorIs(t, svc.Delete(other.ID, equipment.ID), ErrEquipmentNotFound)
	require.NoError(t, svc.Delete(gym.ID, equipment.ID))
	_, err = svc.Get(gym.ID, equipment.ID)
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}
