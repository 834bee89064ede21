package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskContainer(t *testing.T) {
	opID, projectID := "op-1", "proj-1"

	assert.Equal(t, TaskContainer{Kind: ContainerOperation, ID: "op-1"}, Task{OperationID: &opID}.Container())
	assert.Equal(t, TaskContainer{Kind: ContainerProject, ID: "proj-1"}, Task{ProjectID: &projectID}.Container())
	assert.True(t, Task{}.Container().IsZero())
}

func TestTaskInContainer(t *testing.T) {
	opID := "op-1"
	task := Task{OperationID: &opID, Order: 3}

	moved := task.InContainer(TaskContainer{Kind: ContainerProject, ID: "proj-9"})
	assert.Nil(t, moved.OperationID)
	require.NotNil(t, moved.ProjectID)
	assert.Equal(t, "proj-9", *moved.ProjectID)
	assert.Equal(t, 3, moved.Order)

	require.NotNil(t, task.OperationID, "original value is not mutated")
}

func TestTaskToggle_KeepsOrder(t *testing.T) {
	task := Task{Order: 4}

	done := task.Toggle(testNow)
	require.NotNil(t, done.Completed)
	assert.Equal(t, 4, done.Order)

	undone := done.Toggle(testNow)
	assert.Nil(t, undone.Completed)
	assert.Equal(t, 4, undone.Order)
}

func TestGoalToggle(t *testing.T) {
	g := Goal{Order: 2}.Toggle(testNow)
	require.NotNil(t, g.Completed)
	assert.Nil(t, g.Toggle(testNow).Completed)
}
