package gamedata

import (
	"errors"
	"math/rand"
)

// AgentRegistry holds loaded agent definitions and provides spawning utilities.
type AgentRegistry struct {
	agents      []AgentDef
	totalWeight int
}

// NewAgentRegistry creates a registry from loaded agent definitions.
func NewAgentRegistry(agents []AgentDef) *AgentRegistry {
	totalWeight := 0
	for _, a := range agents {
		totalWeight += a.SpawnWeight
	}
	return &AgentRegistry{
		agents:      agents,
		totalWeight: totalWeight,
	}
}

// LoadAgentRegistry loads and creates a registry from the embedded agents.json.
func LoadAgentRegistry() (*AgentRegistry, error) {
	agents, err := LoadAgents()
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, errors.New("no agents loaded from agents.json")
	}
	return NewAgentRegistry(agents), nil
}

// MustLoadAgentRegistry loads a registry, panicking on error.
func MustLoadAgentRegistry() *AgentRegistry {
	registry, err := LoadAgentRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random agent definition using weighted probability.
// Definitions with higher spawnWeight are more likely to be selected.
func (r *AgentRegistry) SpawnRandom(rng *rand.Rand) *AgentDef {
	if r.totalWeight <= 0 || len(r.agents) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.agents {
		cumulative += r.agents[i].SpawnWeight
		if roll < cumulative {
			return &r.agents[i]
		}
	}

	// Fallback (shouldn't happen)
	return &r.agents[0]
}

// GetByID returns the agent definition with the given ID, or nil if not found.
func (r *AgentRegistry) GetByID(id string) *AgentDef {
	for i := range r.agents {
		if r.agents[i].ID == id {
			return &r.agents[i]
		}
	}
	return nil
}

// All returns all agent definitions.
func (r *AgentRegistry) All() []AgentDef {
	return r.agents
}

// Count returns the number of agent templates in the registry.
func (r *AgentRegistry) Count() int {
	return len(r.agents)
}
