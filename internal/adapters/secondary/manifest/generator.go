package manifest

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

// Generator renders the declarative deployment artifacts for a tenant: one
// namespace manifest plus a deployment manifest per requested service. The
// engine consumes only the artifact names; content is for the cluster.
type Generator struct{}

// NewGenerator creates a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

type metadata struct {
	Name      string            `yaml:"name"`
	Namespace string            `yaml:"namespace,omitempty"`
	Labels    map[string]string `yaml:"labels,omitempty"`
}

type namespaceManifest struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   metadata `yaml:"metadata"`
}

type deploymentManifest struct {
	APIVersion string         `yaml:"apiVersion"`
	Kind       string         `yaml:"kind"`
	Metadata   metadata       `yaml:"metadata"`
	Spec       deploymentSpec `yaml:"spec"`
}

type deploymentSpec struct {
	Replicas int         `yaml:"replicas"`
	Template podTemplate `yaml:"template"`
}

type podTemplate struct {
	Metadata metadata `yaml:"metadata"`
	Spec     podSpec  `yaml:"spec"`
}

type podSpec struct {
	Containers []container `yaml:"containers"`
}

type container struct {
	Name      string         `yaml:"name"`
	Image     string         `yaml:"image"`
	Resources map[string]any `yaml:"resources,omitempty"`
}

func (g *Generator) Generate(_ context.Context, tenant *domain.TenantConfig, plan *domain.ResourcePlan) (map[string]string, error) {
	if plan == nil {
		return nil, domain.ErrPlanNotComputed
	}

	namespace := "tenant-" + slug(tenant.Name)
	artifacts := make(map[string]string)

	ns, err := render(namespaceManifest{
		APIVersion: "v1",
		Kind:       "Namespace",
		Metadata: metadata{
			Name:   namespace,
			Labels: map[string]string{"tenant-id": tenant.ID.String()},
		},
	})
	if err != nil {
		return nil, err
	}
	artifacts["namespace.yaml"] = ns

	for _, service := range servicesFor(tenant) {
		name := fmt.Sprintf("%s-%s", slug(tenant.Name), service)
		content, err := render(deploymentManifest{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
			Metadata: metadata{
				Name:      name,
				Namespace: namespace,
				Labels:    map[string]string{"service": string(service)},
			},
			Spec: deploymentSpec{
				Replicas: 1,
				Template: podTemplate{
					Metadata: metadata{Labels: map[string]string{"service": string(service)}},
					Spec: podSpec{
						Containers: []container{{
							Name:  string(service),
							Image: fmt.Sprintf("registry.internal/%s:stable", service),
						}},
					},
				},
			},
		})
		if err != nil {
			return nil, err
		}
		artifacts[fmt.Sprintf("%s.yaml", service)] = content
	}

	return artifacts, nil
}

// servicesFor lists the services the tenant actually runs: nonzero channel
// services in auto-calculate mode, assigned services in custom-specs mode.
func servicesFor(tenant *domain.TenantConfig) []domain.ServiceType {
	seen := make(map[domain.ServiceType]bool)
	var services []domain.ServiceType

	add := func(service domain.ServiceType) {
		if !seen[service] {
			seen[service] = true
			services = append(services, service)
		}
	}

	switch tenant.SizingMode {
	case domain.SizingAutoCalculate:
		for _, service := range domain.ServiceTypes {
			if tenant.Requirement[service] > 0 {
				add(service)
			}
		}
	case domain.SizingCustomSpecs:
		for _, spec := range tenant.CustomServers {
			for _, service := range spec.Services {
				add(service)
			}
		}
	}
	return services
}

func render(doc any) (string, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("render manifest: %w", err)
	}
	return string(data), nil
}

func slug(name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '-'
	}, s)
	return strings.Trim(s, "-")
}

var _ output.ManifestGenerator = (*Generator)(nil)
