package abi

import (
	"reflect"
	"testing"
)

func TestAssign_RegistersOnly(t *testing.T) {
	classes := []Class{ClassInteger, ClassSSE, ClassInteger, ClassSSE}
	a := SysVAMD64.Assign(classes)

	if !reflect.DeepEqual(a.IntRegs, []int{0, 2}) {
		t.Errorf("IntRegs = %v, want [0 2]", a.IntRegs)
	}
	if !reflect.DeepEqual(a.SSERegs, []int{1, 3}) {
		t.Errorf("SSERegs = %v, want [1 3]", a.SSERegs)
	}
	if len(a.Stack) != 0 {
		t.Errorf("Stack = %v, want empty", a.Stack)
	}
}

func TestAssign_IntegerSpill(t *testing.T) {
	classes := make([]Class, 8)
	a := SysVAMD64.Assign(classes)

	if len(a.IntRegs) != 6 {
		t.Fatalf("IntRegs len = %d, want 6", len(a.IntRegs))
	}
	// Arguments 7 and 8 spill in declaration order.
	if !reflect.DeepEqual(a.Stack, []int{6, 7}) {
		t.Errorf("Stack = %v, want [6 7]", a.Stack)
	}
}

func TestAssign_SSESpill(t *testing.T) {
	classes := make([]Class, 10)
	for i := range classes {
		classes[i] = ClassSSE
	}
	a := SysVAMD64.Assign(classes)

	if len(a.SSERegs) != 8 {
		t.Fatalf("SSERegs len = %d, want 8", len(a.SSERegs))
	}
	if !reflect.DeepEqual(a.Stack, []int{8, 9}) {
		t.Errorf("Stack = %v, want [8 9]", a.Stack)
	}
}

func TestAssign_MixedSpillOrder(t *testing.T) {
	// 7 integers and 9 floats: spills interleave in declaration order.
	var classes []Class
	for i := 0; i < 7; i++ {
		classes = append(classes, ClassInteger)
	}
	for i := 0; i < 9; i++ {
		classes = append(classes, ClassSSE)
	}
	a := SysVAMD64.Assign(classes)

	if !reflect.DeepEqual(a.Stack, []int{6, 15}) {
		t.Errorf("Stack = %v, want [6 15]", a.Stack)
	}
}

func TestStackSlots_Alignment(t *testing.T) {
	tests := []struct {
		stackArgs int
		want      int
	}{
		{0, 0},
		{1, 2},
		{2, 2},
		{3, 4},
		{8, 8},
	}

	for _, tt := range tests {
		classes := make([]Class, SysVAMD64.IntArgRegs+tt.stackArgs)
		a := SysVAMD64.Assign(classes)
		if got := SysVAMD64.StackSlots(a); got != tt.want {
			t.Errorf("StackSlots with %d stack args = %d, want %d", tt.stackArgs, got, tt.want)
		}
	}
}

func TestFrameBytes(t *testing.T) {
	a := SysVAMD64.Assign([]Class{ClassInteger, ClassInteger})
	// 14 staging slots + 0 stack slots + saved-SP slot pair.
	want := (6+8)*8 + 16
	if got := SysVAMD64.FrameBytes(a); got != want {
		t.Errorf("FrameBytes = %d, want %d", got, want)
	}
}

func TestStagingSlots(t *testing.T) {
	if got := SysVAMD64.StagingSlots(); got != 14 {
		t.Errorf("StagingSlots = %d, want 14", got)
	}
}
