// Package agent contains the six reasoning architecture implementations and
// their shared execution machinery. The package focuses on three concerns:
//
//  1. Shared run plumbing (baseAgent): prompt assembly, model gateway calls,
//     free-text tool dispatch, completion checking, partial answers
//  2. The closed architecture set: ReActAgent, OODAAgent, BDIAgent, LATAgent,
//     RAISEAgent and ReWOOAgent, each bound to its stage sequence at compile
//     time
//  3. A factory (New) mapping a core.Architecture to its constructor
//
// Execution model:
//   - Run owns a fresh core.RunContext per call with bounded field history
//   - Every stage is one synchronous gateway call followed by extraction
//   - Tool failures become observations, never run failures
//   - Budget exhaustion degrades to a partial answer in StateExhausted
//   - Gateway errors are the only errors Run returns; they propagate
//     unwrapped to the caller
package agent
