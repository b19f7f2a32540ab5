package service

import (
	"context"

	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/naphat-v/visawatch/internal/gateway"
)

type fakePassportRepo struct {
	listDueFn func(ctx context.Context, window domain.ReminderWindow, limit int) ([]domain.Passport, error)
}

func (f *fakePassportRepo) ListDue(ctx context.Context, window domain.ReminderWindow, limit int) ([]domain.Passport, error) {
	if f.listDueFn == nil {
		return nil, nil
	}
	return f.listDueFn(ctx, window, limit)
}

type fakeGateway struct {
	pushFn  func(ctx context.Context, to string, messages []gateway.Message) error
	replyFn func(ctx context.Context, replyToken string, messages []gateway.Message) error
}

func (f *fakeGateway) PushMessage(ctx context.Context, to string, messages []gateway.Message) error {
	if f.pushFn == nil {
		return nil
	}
	return f.pushFn(ctx, to, messages)
}

func (f *fakeGateway) ReplyMessage(ctx context.Context, replyToken string, messages []gateway.Message) error {
	if f.replyFn == nil {
		return nil
	}
	return f.replyFn(ctx, replyToken, messages)
}

type fakeLimiter struct {
	allowFn func(ctx context.Context, channel string) (bool, error)
	waitFn  func(ctx context.Context, channel string) error
}

func (f *fakeLimiter) Allow(ctx context.Context, channel string) (bool, error) {
	if f.allowFn == nil {
		return true, nil
	}
	return f.allowFn(ctx, channel)
}

func (f *fakeLimiter) Wait(ctx context.Context, channel string) error {
	if f.waitFn == nil {
		return nil
	}
	return f.waitFn(ctx, channel)
}
