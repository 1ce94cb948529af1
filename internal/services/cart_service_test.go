package services

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartService_Add(t *testing.T) {
	cake := domain.Product{ID: 1, Name: "Chocolate Cake", Price: 45}

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockCartStore)
		expectedError string
		expectedQty   int
	}{
		{
			name: "adds to empty cart and saves",
			setupMocks: func(store *mocks.MockCartStore) {
				store.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{}, nil)
				store.On("Save", mock.Anything, "cart-1", mock.AnythingOfType("*domain.Cart")).Return(nil)
			},
			expectedQty: 1,
		},
		{
			name: "increments existing line",
			setupMocks: func(store *mocks.MockCartStore) {
				store.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{
					Items: []domain.CartItem{{Product: cake, Quantity: 2}},
				}, nil)
				store.On("Save", mock.Anything, "cart-1", mock.AnythingOfType("*domain.Cart")).Return(nil)
			},
			expectedQty: 3,
		},
		{
			name: "load failure",
			setupMocks: func(store *mocks.MockCartStore) {
				store.On("Load", mock.Anything, "cart-1").Return(nil, errors.New("redis down"))
			},
			expectedError: "redis down",
		},
		{
			name: "save failure",
			setupMocks: func(store *mocks.MockCartStore) {
				store.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{}, nil)
				store.On("Save", mock.Anything, "cart-1", mock.Anything).Return(errors.New("redis down"))
			},
			expectedError: "redis down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockCartStore)
			tt.setupMocks(store)

			svc := NewCartService(store)
			cart, err := svc.Add(context.Background(), "cart-1", cake, "")

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedQty, cart.Items[0].Quantity)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestCartService_SetQuantity(t *testing.T) {
	cake := domain.Product{ID: 1, Price: 45}

	t.Run("updates and saves", func(t *testing.T) {
		store := new(mocks.MockCartStore)
		store.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{
			Items: []domain.CartItem{{Product: cake, Quantity: 1}},
		}, nil)
		store.On("Save", mock.Anything, "cart-1", mock.Anything).Return(nil)

		svc := NewCartService(store)
		cart, err := svc.SetQuantity(context.Background(), "cart-1", 1, 4)

		assert.NoError(t, err)
		assert.Equal(t, 4, cart.Items[0].Quantity)
		store.AssertExpectations(t)
	})

	t.Run("rejects quantity over the cap without touching the store", func(t *testing.T) {
		store := new(mocks.MockCartStore)

		svc := NewCartService(store)
		_, err := svc.SetQuantity(context.Background(), "cart-1", 1, MaxLineQuantity+1)

		assert.ErrorIs(t, err, ErrQuantityTooLarge)
		store.AssertNotCalled(t, "Load")
		store.AssertNotCalled(t, "Save")
	})

	t.Run("zero removes the line", func(t *testing.T) {
		store := new(mocks.MockCartStore)
		store.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{
			Items: []domain.CartItem{{Product: cake, Quantity: 1}},
		}, nil)
		store.On("Save", mock.Anything, "cart-1", mock.Anything).Return(nil)

		svc := NewCartService(store)
		cart, err := svc.SetQuantity(context.Background(), "cart-1", 1, 0)

		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
	})
}

func TestCartService_Clear(t *testing.T) {
	store := new(mocks.MockCartStore)
	store.On("Delete", mock.Anything, "cart-1").Return(nil)

	svc := NewCartService(store)
	assert.NoError(t, svc.Clear(context.Background(), "cart-1"))
	store.AssertExpectations(t)
}
