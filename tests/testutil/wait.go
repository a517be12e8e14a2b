package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/pkg/types"
)

// DefaultTimeout 测试等待的默认超时
const DefaultTimeout = 2 * time.Second

// WaitForCondition 等待条件满足或超时
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail 等待条件满足，超时则 fail 测试
func WaitForConditionOrFail(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, timeout, interval, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Eventually 在指定时间内重试条件检查，间隔 10ms
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	WaitForConditionOrFail(t, timeout, 10*time.Millisecond, condition, msg)
}

// Receive 在 DefaultTimeout 内从邮箱取一条消息，超时 fail 测试
func Receive(t *testing.T, mb *actor.Mailbox) *types.Envelope {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	env, err := mb.Receive(ctx)
	if err != nil {
		t.Fatalf("等待消息失败: %v", err)
	}
	return env
}

// ExpectNoMessage 在 d 内邮箱不应收到消息
func ExpectNoMessage(t *testing.T, mb *actor.Mailbox, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	if env, err := mb.Receive(ctx); err == nil {
		t.Fatalf("不应收到消息，收到 %T: %v", env.Content, env.Content)
	}
}
