// Package cache fornece o cache TTL em memória usado pela tabela analítica.
// É estado mutável compartilhado do processo, mas com contrato explícito:
// toda escrita bem-sucedida de NF-e/CT-e invalida antes da próxima leitura,
// e o leitor reconstrói sob cache miss.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// poucos datasets convivem no cache (hoje só a tabela analítica)
const maxEntries = 8

// TTL cache chave string → valor com expiração fixa por entrada.
type TTL[V any] struct {
	lru *expirable.LRU[string, V]
}

// NewTTL cria o cache com o TTL informado.
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{lru: expirable.NewLRU[string, V](maxEntries, nil, ttl)}
}

// Get devolve o valor e se a entrada ainda está viva.
func (c *TTL[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Set grava o valor sob a chave, renovando o TTL.
func (c *TTL[V]) Set(key string, v V) {
	c.lru.Add(key, v)
}

// Invalidate remove a entrada; a próxima leitura reconstrói sincronamente.
func (c *TTL[V]) Invalidate(key string) {
	c.lru.Remove(key)
}
