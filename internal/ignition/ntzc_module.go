package ignition

// NTZCModule deploys the NTZC contract without constructor arguments.
var NTZCModule = BuildModule("NTZCModule", func(m *ModuleBuilder) map[string]*ContractFuture {
	ntzc := m.Contract("NTZC", []any{})

	return map[string]*ContractFuture{"ntzc": ntzc}
})
