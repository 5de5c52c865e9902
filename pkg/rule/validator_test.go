package rule_test

import (
	"testing"

	"github.com/yeisme/recvault/pkg/rule"
)

// RetentionRequest 用于测试结构体校验.
type RetentionRequest struct {
	RecordingID   string `rule:"required"`
	RetentionDays int    `rule:"retention_days"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	// 有效结构体
	valid := RetentionRequest{RecordingID: "rec-1", RetentionDays: 90}

	err := rule.ValidateStruct(valid)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 无效结构体：缺少 RecordingID
	invalid1 := RetentionRequest{RecordingID: "", RetentionDays: 90}

	err = rule.ValidateStruct(invalid1)
	if err == nil {
		t.Error("Expected error for invalid struct (missing recording id), got nil")
	}

	// 无效结构体：保留天数超出范围
	invalid2 := RetentionRequest{RecordingID: "rec-1", RetentionDays: 366}

	err = rule.ValidateStruct(invalid2)
	if err == nil {
		t.Error("Expected error for invalid struct (days > 365), got nil")
	}
}

// TestValidateVarRetentionDays 测试 retention_days 别名规则的边界.
func TestValidateVarRetentionDays(t *testing.T) {
	cases := []struct {
		days    int
		wantErr bool
	}{
		{1, false},
		{90, false},
		{365, false},
		{0, true},
		{-5, true},
		{366, true},
	}

	for _, c := range cases {
		err := rule.ValidateVar(c.days, "retention_days")
		if c.wantErr && err == nil {
			t.Errorf("days=%d: expected error, got nil", c.days)
		}

		if !c.wantErr && err != nil {
			t.Errorf("days=%d: expected no error, got %v", c.days, err)
		}
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("actor_id", "required,min=3")

	err := rule.ValidateVar("admin-42", "actor_id")
	if err != nil {
		t.Errorf("Expected no error for valid actor id, got %v", err)
	}

	err = rule.ValidateVar("a", "actor_id")
	if err == nil {
		t.Error("Expected error for too-short actor id, got nil")
	}
}
